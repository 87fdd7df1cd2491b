package profile

import "sync"

func builtin() []Profile {
	return []Profile{
		{
			Name:        Catatonia,
			Description: "minimal movement, rigid pattern, low entropy",
			EyeAmp:      .12, EyeFreq: .25, MouthAmp: .04, BrowAmp: .06, Chaos: .08, Vel: .15,
			Notes: []string{"C3", "D3", "E3"}, Tempo: 40, NoteLen: "4n",
		},
		{
			Name:        Depression,
			Description: "slow, damped oscillation with a downward gaze bias",
			EyeAmp:      .22, EyeFreq: .45, MouthAmp: .10, BrowAmp: .13, Chaos: .20, Vel: .35,
			Notes: []string{"D3", "F3", "A3", "C4"}, Tempo: 55, NoteLen: "4n",
		},
		{
			Name:        Paranoid,
			Description: "fast scanning, irregular saccades, high vigilance",
			EyeAmp:      .55, EyeFreq: 1.6, MouthAmp: .30, BrowAmp: .40, Chaos: .65, Vel: 1.1,
			Notes: []string{"E4", "G4", "Bb4", "C5", "Eb5"}, Tempo: 140, NoteLen: "16n",
		},
		{
			Name:        Mania,
			Description: "hyperkinetic, wide range, maximum entropy",
			EyeAmp:      .75, EyeFreq: 2.0, MouthAmp: .45, BrowAmp: .50, Chaos: .80, Vel: 1.5,
			Notes: []string{"C4", "E4", "G4", "B4", "D5", "F#5"}, Tempo: 170, NoteLen: "16n",
		},
		{
			Name:        Healthy,
			Description: "balanced dynamics, regular saccadic rhythm",
			EyeAmp:      .35, EyeFreq: .90, MouthAmp: .18, BrowAmp: .22, Chaos: .30, Vel: .65,
			Notes: []string{"C4", "E4", "G4", "A4", "C5"}, Tempo: 90, NoteLen: "8n",
		},
	}
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the built-in store shared by the whole process.
func Default() *Store {
	defaultOnce.Do(func() {
		s, err := NewStore(builtin()...)
		if err != nil {
			panic(err)
		}
		defaultStore = s
	})
	return defaultStore
}
