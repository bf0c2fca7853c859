package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft/pkg/codegen"
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate provenance-tagged Go declarations",
	Long:  `Emits Go request/response declarations for the protocol in which fields pinned to a prior step's output carry a phantom provenance tag, so differently-sourced values of the same base type do not interchange.`,
	Run: func(cmd *cobra.Command, args []string) {
		proto := loadProtocol(cmd, args)
		pkgName, _ := cmd.Flags().GetString("package")

		src, err := codegen.New(codegen.WithPackage(pkgName)).Emit(proto)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(src)
	},
}

func init() {
	genCmd.Flags().String("package", "protocoltypes", "Package name of the generated file")
	rootCmd.AddCommand(genCmd)
}
