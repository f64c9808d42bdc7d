package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/layerdisplay"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of layerdisplay",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("layerdisplay version %s\n", strings.TrimSpace(layerdisplay.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
