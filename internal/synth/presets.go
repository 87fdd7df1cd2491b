package synth

// Presets for the five instrument roles.

func Violin() Params {
	return Params{
		Kind: FM, Waveform: Sine, Harmonicity: 3.01, ModIndex: 2,
		Attack: 0.15, Decay: 0.3, Sustain: 0.6, Release: 0.8,
		VolumeDB: -8, Polyphony: 8,
		VibratoDepth: 0.15, VibratoRate: 5.5,
	}
}

func Cello() Params {
	return Params{
		Kind: AM, Waveform: Triangle, Harmonicity: 2,
		Attack: 0.2, Decay: 0.4, Sustain: 0.7, Release: 1.0,
		VolumeDB: -10, Polyphony: 8,
	}
}

func Trumpet() Params {
	return Params{
		Kind: Basic, Waveform: Saw, Partials: 8, Harmonicity: 1,
		Attack: 0.05, Decay: 0.2, Sustain: 0.5, Release: 0.4,
		VolumeDB: -12, Polyphony: 8,
	}
}

func Flute() Params {
	return Params{
		Kind: Basic, Waveform: Sine, Harmonicity: 1,
		Attack: 0.1, Decay: 0.1, Sustain: 0.8, Release: 0.6,
		VolumeDB: -14, Polyphony: 8,
		VibratoDepth: 0.1, VibratoRate: 4.5,
	}
}

func Oboe() Params {
	return Params{
		Kind: FM, Waveform: Sine, Harmonicity: 1.5, ModIndex: 4,
		Attack: 0.08, Decay: 0.15, Sustain: 0.5, Release: 0.5,
		VolumeDB: -13, Polyphony: 8,
	}
}
