package main

import (
	"github.com/aretw0/stylist/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [session-id]",
	Short: "Run the guided flow interactively in the terminal",
	Long: `Runs the onboarding flow and the style chat for one session.
Progress is saved after every step, so running the command again with the same
session id resumes where you left off. Type 'exit' to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if len(args) > 0 {
			sessionID = args[0]
		}
		fresh, _ := cmd.Flags().GetBool("fresh")
		headless, _ := cmd.Flags().GetBool("headless")

		rt, _, err := loadRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		return cli.RunChat(cmd.Context(), rt, cli.ChatOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			Headless:  headless,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "default", "Session id to run or resume")
	chatCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	chatCmd.Flags().Bool("headless", false, "Plain transcript without banner, hints or markdown rendering")
}
