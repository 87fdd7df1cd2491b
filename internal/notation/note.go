package notation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNote     = errors.New("invalid note name")
	ErrDuration = errors.New("invalid duration token")
)

var pitchClass = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ParseNote converts scientific pitch notation ("C4", "Bb4", "F#5") to a MIDI
// note number. C4 is 60. Accidentals are '#' and 'b' and may be doubled.
func ParseNote(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrNote, name)
	}
	pc, ok := pitchClass[lower(s[0])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNote, name)
	}
	i := 1
	for ; i < len(s) && i < 3; i++ {
		if s[i] == '#' {
			pc++
		} else if s[i] == 'b' {
			pc--
		} else {
			break
		}
	}
	oct, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNote, name)
	}
	midi := (oct+1)*12 + pc
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("%w: %q out of MIDI range", ErrNote, name)
	}
	return midi, nil
}

// NoteName is the inverse of ParseNote, spelled with sharps.
func NoteName(midi int) string {
	oct := floorDiv(midi, 12) - 1
	return sharpNames[midi-floorDiv(midi, 12)*12] + strconv.Itoa(oct)
}

// Frequency returns the equal-tempered frequency in Hz (A4 = 440).
func Frequency(midi float64) float64 {
	return 440 * math.Pow(2, (midi-69)/12)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
