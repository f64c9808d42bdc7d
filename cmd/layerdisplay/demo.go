package main

import (
	"os"
	"strings"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/internal/cli"
	"github.com/aretw0/layerdisplay/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run both halves in one process over the in-memory link",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		tui.PrintBanner(os.Stdout, "demo", strings.TrimSpace(layerdisplay.Version))
		return cli.RunDemo(ctx, cli.DemoOptions{
			Config: cfg,
			Logger: logger,
			In:     os.Stdin,
			Out:    os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
