package notation

import (
	"errors"
	"math"
	"testing"
)

func TestParseNote(t *testing.T) {
	for _, tc := range []struct {
		name string
		want int
	}{
		{"C4", 60},
		{"A4", 69},
		{"C3", 48},
		{"Bb4", 70},
		{"Eb5", 75},
		{"F#5", 78},
		{"c-1", 0},
		{"G9", 127},
		{"Cb4", 59},
		{"D##3", 52},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNote(tc.name)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.name, err)
			}
			if got != tc.want {
				t.Fatalf("ParseNote(%q) = %d, want %d", tc.name, got, tc.want)
			}
		})
	}
}

func TestParseNoteRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "H4", "C", "Cx4", "C#", "G#9", "4C"} {
		if _, err := ParseNote(in); !errors.Is(err, ErrNote) {
			t.Fatalf("ParseNote(%q) err = %v, want ErrNote", in, err)
		}
	}
}

func TestNoteNameRoundTrip(t *testing.T) {
	for midi := 0; midi <= 127; midi++ {
		got, err := ParseNote(NoteName(midi))
		if err != nil {
			t.Fatalf("midi %d (%s): %v", midi, NoteName(midi), err)
		}
		if got != midi {
			t.Fatalf("midi %d round-tripped to %d", midi, got)
		}
	}
	if NoteName(36) != "C2" || NoteName(73) != "C#5" {
		t.Fatalf("unexpected spelling: %s %s", NoteName(36), NoteName(73))
	}
}

func TestFrequency(t *testing.T) {
	if f := Frequency(69); f != 440 {
		t.Fatalf("A4 = %v, want 440", f)
	}
	if f := Frequency(57); math.Abs(f-220) > 1e-9 {
		t.Fatalf("A3 = %v, want 220", f)
	}
}

func TestSeconds(t *testing.T) {
	for _, tc := range []struct {
		token string
		bpm   float64
		want  float64
	}{
		{"4n", 120, 0.5},
		{"8n", 120, 0.25},
		{"16n", 120, 0.125},
		{"4n", 60, 1},
		{"4n.", 120, 0.75},
		{"8t", 120, 0.25 * 2 / 3},
		{"1m", 120, 2},
		{"0.3", 90, 0.3},
		{"16n", 170, 60.0 / 170 / 4},
	} {
		t.Run(tc.token, func(t *testing.T) {
			got, err := Seconds(tc.token, tc.bpm)
			if err != nil {
				t.Fatalf("Seconds(%q): %v", tc.token, err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("Seconds(%q, %v) = %v, want %v", tc.token, tc.bpm, got, tc.want)
			}
		})
	}
}

func TestSecondsRejectsBadTokens(t *testing.T) {
	for _, tok := range []string{"", "n", "0n", "-4n", "4x", "0.5.", "abc"} {
		if _, err := Seconds(tok, 120); !errors.Is(err, ErrDuration) {
			t.Fatalf("Seconds(%q) err = %v, want ErrDuration", tok, err)
		}
	}
	if _, err := Seconds("4n", 0); !errors.Is(err, ErrDuration) {
		t.Fatalf("zero tempo accepted")
	}
}
