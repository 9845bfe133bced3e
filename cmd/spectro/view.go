package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/phanxgames/spectro"
	"github.com/phanxgames/spectro/ebitenview"
	"github.com/phanxgames/spectro/internal/appconfig"
	"github.com/phanxgames/spectro/internal/spectrogram"
	"github.com/phanxgames/spectro/memstore"
)

func newViewCmd() *cobra.Command {
	var screenshots string
	var noAudio bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the demo recording in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := appconfig.Load(configPath(cmd))
			if err != nil {
				return err
			}

			sig, err := spectrogram.Demo(spectrogram.DemoOptions{
				SampleRate: cfg.Demo.SampleRate,
				Seconds:    cfg.Demo.Seconds,
				Seed:       cfg.Demo.Seed,
			})
			if err != nil {
				return err
			}
			opts := spectrogram.DefaultOptions()
			opts.WindowSize, opts.Hop = cfg.Demo.WindowSize, cfg.Demo.Hop
			img, err := spectrogram.Render(sig, opts)
			if err != nil {
				return err
			}
			logger.Info("spectrogram rendered", "frames", img.Bounds().Dx(), "bins", img.Bounds().Dy())

			var player *ebitenview.Player
			sessOpts := spectro.SessionOptions{
				Config:    cfg.Session,
				Store:     memstore.New(),
				Clipboard: ebitenview.SystemClipboard{},
				Width:     float64(cfg.View.Width),
				Height:    float64(cfg.View.Height),
			}
			if cfg.Audio.Enabled && !noAudio {
				actx := audio.NewContext(cfg.Audio.OutputRate)
				player = ebitenview.NewPlayer(actx, spectrogram.PCM16Stereo(sig), sig.SampleRate)
				defer player.Close()
				sessOpts.Player = player
			}

			session, err := spectro.NewSession(ctx, sig.Recording(), sessOpts)
			if err != nil {
				return fmt.Errorf("open session: %w", err)
			}
			defer session.Close()

			renderer := ebitenview.NewRenderer(ebiten.NewImageFromImage(img))
			game := ebitenview.NewGame(ctx, session, renderer, ebitenview.Options{
				Title:         cfg.View.Title,
				Width:         cfg.View.Width,
				Height:        cfg.View.Height,
				Tags:          cfg.View.Tags,
				Player:        player,
				ScreenshotDir: screenshots,
			})
			return ebitenview.Run(game)
		},
	}
	cmd.Flags().StringVar(&screenshots, "screenshots", "screenshots", "directory for F12 screenshots")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable audio output")
	return cmd
}
