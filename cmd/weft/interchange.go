package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft/pkg/interchange"
)

// interchangeCmd represents the interchange command
var interchangeCmd = &cobra.Command{
	Use:   "interchange",
	Short: "Export the protocol as an interchange document",
	Long:  `Converts a validated protocol into the plain step-graph description used for embedding in API description documents. Invalid protocols are refused.`,
	Run: func(cmd *cobra.Command, args []string) {
		proto := loadProtocol(cmd, args)

		doc, err := interchange.FromProtocol(proto)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			fmt.Printf("Error encoding document: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(interchangeCmd)
}
