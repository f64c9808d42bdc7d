package main

import (
	"os"
	"strings"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/internal/cli"
	"github.com/aretw0/layerdisplay/internal/config"
	"github.com/aretw0/layerdisplay/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var peripheralCmd = &cobra.Command{
	Use:   "peripheral",
	Short: "Run the peripheral half and display the forwarded layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		cfg.Node.Role = config.RolePeripheral
		if source, _ := cmd.Flags().GetUint8("source"); cmd.Flags().Changed("source") {
			cfg.Node.Source = source
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		tui.PrintBanner(os.Stdout, cfg.Node.Role, strings.TrimSpace(layerdisplay.Version))
		err = cli.RunPeripheral(ctx, cli.PeripheralOptions{
			Config: cfg,
			Logger: logger,
			Out:    os.Stdout,
		})
		if sig := ctx.Signal(); sig != nil {
			logger.Info("shutting down", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(peripheralCmd)

	peripheralCmd.Flags().Uint8("source", 0, "Index this peripheral listens as")
}
