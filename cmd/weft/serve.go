package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/adapters/httpapi"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/aretw0/weft/pkg/schema"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the protocol over HTTP with a stub executor",
	Long: `Starts the HTTP adapter for the protocol using a stub executor that
synthesizes zero-valued responses from each step's response schema. This is
a development mode for exercising gating, mappings and validation before
any real executor exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		proto := loadProtocol(cmd, args)
		addr, _ := cmd.Flags().GetString("addr")

		logger := logging.New(slog.LevelInfo)

		stub := ports.ExecutorFunc(func(ctx context.Context, step string, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
			s, _ := proto.Step(step)
			return schema.ZeroValue(s.ResponseSchema()), nil
		})

		eng, err := weft.New(proto, stub, weft.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		handler := httpapi.NewHandler(eng, httpapi.WithLogger(logger))
		logger.Info("serving protocol", "addr", addr, "protocol", proto.Name())
		if err := http.ListenAndServe(addr, handler); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
