package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/phanxgames/spectro"
	"github.com/phanxgames/spectro/internal/appconfig"
	"github.com/phanxgames/spectro/memstore"
)

func newReplayCmd() *cobra.Command {
	var maxTicks int
	var width, height float64
	cmd := &cobra.Command{
		Use:   "replay <script.json>",
		Short: "Run a replay script against a headless session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := appconfig.Load(configPath(cmd))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			runner, err := spectro.LoadReplayScript(data)
			if err != nil {
				return err
			}
			rec := spectro.Recording{
				SampleRate:   cfg.Demo.SampleRate,
				Duration:     cfg.Demo.Seconds,
				ChannelCount: 1,
			}
			store := memstore.New()
			session, err := spectro.NewSession(ctx, rec, spectro.SessionOptions{
				Config: cfg.Session,
				Store:  store,
				Width:  width,
				Height: height,
			})
			if err != nil {
				return fmt.Errorf("open session: %w", err)
			}
			defer session.Close()

			if err := spectro.Replay(ctx, session, runner, 1.0/60, maxTicks); err != nil {
				return fmt.Errorf("replay %s: %w", args[0], err)
			}
			list, err := store.List(ctx)
			if err != nil {
				return err
			}
			pslog.Ctx(ctx).Info("replay passed",
				"script", args[0],
				"mode", session.Machine().Mode(),
				"window", session.Viewport().Window(),
				"annotations", len(list),
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 100000, "tick limit before the replay times out")
	cmd.Flags().Float64Var(&width, "width", 1000, "canvas width in pixels")
	cmd.Flags().Float64Var(&height, "height", 500, "canvas height in pixels")
	return cmd
}
