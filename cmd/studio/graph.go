package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/presentation/graph"
	"github.com/bots-against-war/moduli/internal/validator"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the user flow. Nodes with validation errors are highlighted.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		flow := mustLoadFlow(cmd, a, args[0])

		overlay := &graph.GraphOverlay{}
		for _, issue := range validator.Validate(flow).Errors() {
			overlay.InvalidNodes = append(overlay.InvalidNodes, issue.NodeID)
		}
		overlay.CurrentNode, _ = cmd.Flags().GetString("focus")

		fmt.Print(graph.GenerateMermaid(flow, a.t, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addFlowSourceFlags(graphCmd)
	graphCmd.Flags().String("focus", "", "Node id to highlight")
}
