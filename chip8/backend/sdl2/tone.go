package sdl2

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 32 // amplitude around the unsigned 8-bit midpoint
	silence       = 0x80
)

// squareWave fills n unsigned 8-bit samples of a square wave, continuing
// from phase so consecutive chunks join without clicks. It returns the
// phase to pass to the next call.
func squareWave(n int, phase int) ([]byte, int) {
	period := sampleRate / toneFrequency
	half := period / 2

	samples := make([]byte, n)
	for i := range samples {
		if phase < half {
			samples[i] = silence + toneVolume
		} else {
			samples[i] = silence - toneVolume
		}
		phase = (phase + 1) % period
	}
	return samples, phase
}
