package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// beatsPerMeasure assumes 4/4 time.
const beatsPerMeasure = 4

// Seconds converts a musical duration token to seconds at the given tempo.
//
//	"4n"  quarter note        "8t"  eighth-note triplet
//	"16n" sixteenth note      "4n." dotted quarter
//	"1m"  one measure         "0.25" plain seconds
func Seconds(token string, bpm float64) (float64, error) {
	if bpm <= 0 {
		return 0, fmt.Errorf("%w: tempo %v", ErrDuration, bpm)
	}
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrDuration)
	}
	dotted := strings.HasSuffix(s, ".")
	if dotted {
		s = s[:len(s)-1]
	}
	beat := 60 / bpm
	var out float64
	switch unit := s[len(s)-1]; unit {
	case 'n', 't', 'm':
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrDuration, token)
		}
		switch unit {
		case 'n':
			out = beat * beatsPerMeasure / float64(n)
		case 't':
			out = beat * beatsPerMeasure / float64(n) * 2 / 3
		default:
			out = beat * beatsPerMeasure * float64(n)
		}
	default:
		if dotted {
			// "0.5." is not a thing
			return 0, fmt.Errorf("%w: %q", ErrDuration, token)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrDuration, token)
		}
		return v, nil
	}
	if dotted {
		out *= 1.5
	}
	return out, nil
}

// MustSeconds is Seconds for tokens known at compile time.
func MustSeconds(token string, bpm float64) float64 {
	v, err := Seconds(token, bpm)
	if err != nil {
		panic(err)
	}
	return v
}
