package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/spectro"
	"github.com/phanxgames/spectro/internal/appconfig"
)

func newSpeedsCmd() *cobra.Command {
	var sampleRate int
	cmd := &cobra.Command{
		Use:   "speeds",
		Short: "List the playback speeds offered for a sample rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(configPath(cmd))
			if err != nil {
				return err
			}
			if sampleRate <= 0 {
				sampleRate = cfg.Demo.SampleRate
			}
			opts := spectro.SpeedOptions(sampleRate, cfg.Session.MinPlaybackRate, cfg.Session.MaxPlaybackRate)
			def := spectro.DefaultSpeed(opts)
			out := cmd.OutOrStdout()
			for _, o := range opts {
				mark := ""
				if o.Value == def {
					mark = " (default)"
				}
				if _, err := fmt.Fprintf(out, "%-6s %g%s\n", o.Label, o.Value, mark); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&sampleRate, "sample-rate", 0, "recording sample rate in Hz (default: demo sample rate)")
	return cmd
}
