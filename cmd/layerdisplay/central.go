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

var centralCmd = &cobra.Command{
	Use:   "central",
	Short: "Run the central half and drive layers from stdin",
	Long: `Starts the central node. Each stdin line changes the keymap:

  on N     activate layer N
  off N    deactivate layer N
  tog N    toggle layer N
  to N     deactivate everything but the default layer, then activate N
  show     print the active layers
  quit     exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		cfg.Node.Role = config.RoleCentral
		if source, _ := cmd.Flags().GetUint8("source"); cmd.Flags().Changed("source") {
			cfg.Node.Source = source
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		tui.PrintBanner(os.Stdout, cfg.Node.Role, strings.TrimSpace(layerdisplay.Version))
		err = cli.RunCentral(ctx, cli.CentralOptions{
			Config: cfg,
			Logger: logger,
			In:     os.Stdin,
			Out:    os.Stdout,
		})
		if sig := ctx.Signal(); sig != nil {
			logger.Info("shutting down", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(centralCmd)

	centralCmd.Flags().Uint8("source", 0, "Peripheral index to forward the layer to")
}
