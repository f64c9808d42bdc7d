package main

import (
	"log"
	"os"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/pkg/adapters/mcp"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server over stdio",
	Long: `Starts a peripheral display driven by an MCP client.
Agents can read the current layer and set a new one with the
get_current_layer and set_layer tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		p := layerdisplay.NewPeripheral(
			layerdisplay.WithLogger(logger),
			layerdisplay.WithBehaviorName(cfg.Behavior),
		)
		p.OnChange(func(l domain.Layer) {
			logger.Info("layer shown", "layer", l)
		})
		p.Start()
		defer p.Stop()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("starting MCP server (stdio)")

		srv := mcp.NewServer(p.State, p.Behaviors,
			keymap.New(keymap.WithLayers(cfg.Keymap.Layers)),
			mcp.WithBehavior(cfg.Behavior),
		)
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
