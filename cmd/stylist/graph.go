package main

import (
	"github.com/aretw0/stylist/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [session-id]",
	Short: "Export the flow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the guided flow.
Given a session id, the session's current step is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cmd.Print(graph.GenerateMermaid(nil))
			return nil
		}

		rt, _, err := loadRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		sess, err := rt.Engine.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Print(graph.GenerateMermaid(&graph.Overlay{Current: sess.Step()}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
