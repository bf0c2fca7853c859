package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft/internal/compiler"
	"github.com/aretw0/weft/pkg/protocol"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a protocol definition",
	Long:  `Parses the protocol file and reports structural problems: missing initial or terminal steps, dangling dependencies and dependency cycles.`,
	Run: func(cmd *cobra.Command, args []string) {
		proto := loadProtocol(cmd, args)

		report := proto.Validate()
		if report.Valid {
			fmt.Printf("protocol %q is valid (%d steps)\n", proto.Name(), len(proto.StepNames()))
			return
		}
		fmt.Printf("protocol %q is invalid:\n", proto.Name())
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	},
}

// loadProtocol reads the protocol file named by --file (or the first
// positional argument) and exits on parse failure.
func loadProtocol(cmd *cobra.Command, args []string) *protocol.Protocol {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		path = args[0]
	}

	proto, err := compiler.ParseFile(path)
	if err != nil {
		fmt.Printf("Error loading protocol: %v\n", err)
		os.Exit(1)
	}
	return proto
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
