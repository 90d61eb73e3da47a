package main

import (
	"strings"

	"github.com/aretw0/stylist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stylist",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("stylist version %s\n", strings.TrimSpace(stylist.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
