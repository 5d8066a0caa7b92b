package tts

import (
	"context"
)

// Audio is raw synthesized voice for one chunk of text.
type Audio struct {
	Data   []byte
	Format string // e.g. "LINEAR16", "pcm"
}

// Voice selects the speaker and the audio format returned by a Synthesizer.
type Voice struct {
	LanguageCode    string
	Name            string
	Encoding        string
	SampleRateHertz int
}

// DefaultVoice is used when no voice profile is configured.
var DefaultVoice = Voice{
	LanguageCode:    "en-US",
	Name:            "en-US-Wavenet-D",
	Encoding:        "LINEAR16",
	SampleRateHertz: 24000,
}

// Synthesizer converts text to Audio.
// Concrete implementation wraps Google Cloud TTS, OpenAI, etc.
type Synthesizer interface {
	// Synthesize takes text and returns Audio.
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// VoiceInfo describes a voice offered by a backend.
type VoiceInfo struct {
	Name                   string
	LanguageCodes          []string
	Gender                 string
	NaturalSampleRateHertz int
}

// VoiceLister is implemented by backends that can enumerate their voices.
type VoiceLister interface {
	ListVoices(ctx context.Context, languageCode string) ([]VoiceInfo, error)
}

// VoiceSelector is implemented by synthesizers that can speak with another
// voice of the same backend without reconnecting.
type VoiceSelector interface {
	WithVoiceName(name string) Synthesizer
}
