package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZaguanLabs/agrilingo/speech"
	"github.com/spf13/cobra"
)

type speakOptions struct {
	lang      string
	rate      float64
	pitch     float64
	volume    float64
	translate bool
}

func newSpeakCmd(a *app) *cobra.Command {
	opts := speakOptions{
		rate:   speech.DefaultRate,
		pitch:  speech.DefaultPitch,
		volume: speech.DefaultVolume,
	}

	cmd := &cobra.Command{
		Use:   "speak <text...>",
		Short: "Read text aloud in the selected language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.speak(ctx, strings.Join(args, " "), opts, &speech.EspeakEngine{Binary: a.cfg.Speech.Binary})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "Language to speak (default: persisted selection)")
	f.Float64Var(&opts.rate, "rate", opts.rate, "Speech rate multiplier")
	f.Float64Var(&opts.pitch, "pitch", opts.pitch, "Pitch multiplier")
	f.Float64Var(&opts.volume, "volume", opts.volume, "Volume multiplier")
	f.BoolVar(&opts.translate, "translate", true, "Translate the text before speaking")
	return cmd
}

func (a *app) speak(ctx context.Context, text string, opts speakOptions, engine speech.Engine) error {
	rt, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	lang := opts.lang
	if lang == "" {
		lang = rt.svc.Language()
	}
	if opts.translate {
		text, err = rt.svc.Await(ctx, text, lang)
		if err != nil {
			return fmt.Errorf("translation did not finish: %w", err)
		}
	}

	var failed error
	player := speech.NewPlayer(engine,
		speech.WithLogger(a.log),
		speech.WithHandler(func(ev speech.Event) {
			if ev.Type == speech.EventError {
				failed = ev.Err
			}
		}),
	)
	defer player.Close()

	u := speech.NewUtterance(text, lang)
	u.Rate, u.Pitch, u.Volume = opts.rate, opts.pitch, opts.volume
	player.Play(ctx, u)

	if err := player.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	// Close waits for the handler to have run.
	player.Close()
	return failed
}
