// Package speech reads translated text aloud.
//
// A Player drives an Engine one utterance at a time. Toggling while an
// utterance is playing stops it, which is how a "read aloud" button behaves.
package speech

import (
	"context"

	"github.com/ZaguanLabs/agrilingo"
)

// Default voice settings, tuned for slower, clearer speech.
const (
	DefaultRate   = 0.9
	DefaultPitch  = 1.0
	DefaultVolume = 1.0
)

// Utterance is one piece of text to speak.
type Utterance struct {
	Text string
	// Lang is a BCP 47 tag such as "hi-IN".
	Lang   string
	Rate   float64 // 1.0 is normal speed
	Pitch  float64 // 1.0 is the voice's normal pitch
	Volume float64 // 0.0 to 1.0
}

// NewUtterance builds an utterance for text in the language code lang with
// the default voice settings.
func NewUtterance(text, lang string) Utterance {
	return Utterance{
		Text:   text,
		Lang:   agrilingo.SpeechTag(lang),
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}
}

// Engine synthesizes speech. Speak blocks until the utterance has finished
// playing and must return promptly once ctx is done.
type Engine interface {
	Speak(ctx context.Context, u Utterance) error
}

// EventType identifies a playback lifecycle event.
type EventType int

const (
	EventStart EventType = iota
	EventEnd
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered to a Player's handler.
type Event struct {
	Type      EventType
	Utterance Utterance
	// Err is set for EventError.
	Err error
}
