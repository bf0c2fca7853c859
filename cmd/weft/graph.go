package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dependency graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the protocol's step dependencies. Gate dependencies render as solid arrows, mapping sources as dotted labeled arrows.`,
	Run: func(cmd *cobra.Command, args []string) {
		proto := loadProtocol(cmd, args)
		fmt.Print(graph.GenerateMermaid(proto, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
