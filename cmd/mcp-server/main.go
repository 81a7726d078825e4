// Command mcp-server exposes the goroots tools as an HTTP endpoint for AI
// agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots/internal/logging"
	"github.com/njchilds90/goroots/internal/server"
)

var (
	flagPort      int
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:           "mcp-server",
	Short:         "Serve goroots tools over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().IntVar(&flagPort, "port", 8080, "port to listen on")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "text", "log format (text|json)")
}

func runServer(cmd *cobra.Command, args []string) error {
	log, err := logging.New(os.Stderr, flagLogLevel, flagLogFormat)
	if err != nil {
		return err
	}
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := fmt.Sprintf(":%d", flagPort)
	log.WithField("addr", addr).Info("goroots MCP server listening")

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
