package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultEspeakBinary is looked up on PATH.
const DefaultEspeakBinary = "espeak-ng"

// espeak-ng speaks at about 175 words per minute by default.
const espeakBaseWPM = 175

// EspeakEngine speaks through the espeak-ng command line synthesizer.
type EspeakEngine struct {
	Binary string
}

// NewEspeakEngine creates an engine using espeak-ng from PATH.
func NewEspeakEngine() *EspeakEngine {
	return &EspeakEngine{Binary: DefaultEspeakBinary}
}

// Speak runs espeak-ng and waits for it to exit. Cancelling ctx kills it.
func (e *EspeakEngine) Speak(ctx context.Context, u Utterance) error {
	bin := e.Binary
	if bin == "" {
		bin = DefaultEspeakBinary
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, espeakArgs(u)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("espeak-ng: %s: %w", msg, err)
		}
		return fmt.Errorf("espeak-ng: %w", err)
	}
	return nil
}

// espeakArgs maps an utterance onto espeak-ng flags.
func espeakArgs(u Utterance) []string {
	voice := strings.ToLower(strings.ReplaceAll(u.Lang, "_", "-"))
	if base, _, ok := strings.Cut(voice, "-"); ok {
		voice = base
	}
	if voice == "" {
		voice = "en"
	}

	rate := u.Rate
	if rate <= 0 {
		rate = DefaultRate
	}
	pitch := u.Pitch
	if pitch < 0 {
		pitch = DefaultPitch
	}
	volume := u.Volume
	if volume < 0 {
		volume = 0
	}

	return []string{
		"-v", voice,
		"-s", strconv.Itoa(clamp(int(rate*espeakBaseWPM), 80, 450)),
		"-p", strconv.Itoa(clamp(int(pitch*50), 0, 99)),
		"-a", strconv.Itoa(clamp(int(volume*100), 0, 200)),
		"--", u.Text,
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Verify EspeakEngine implements Engine
var _ Engine = (*EspeakEngine)(nil)
