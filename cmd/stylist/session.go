package main

import (
	"github.com/aretw0/stylist/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage persisted sessions",
}

var sessionListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := loadRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)
		return cli.ListSessions(cmd.Context(), rt, cmd.OutOrStdout())
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect [session-id]",
	Short: "Show the step, likes and conversation of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		rt, _, err := loadRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)
		return cli.InspectSession(cmd.Context(), rt, args[0], asJSON, cmd.OutOrStdout())
	},
}

var sessionRmCmd = &cobra.Command{
	Use:     "rm [session-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := loadRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)
		if err := cli.RemoveSession(cmd.Context(), rt, args[0]); err != nil {
			return err
		}
		cmd.Printf("Session '%s' deleted.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionInspectCmd, sessionRmCmd)

	sessionInspectCmd.Flags().Bool("json", false, "Print the session as JSON")
}
