package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vitalens",
	Short: "vitalens identifies a food and reports its Vitamin K content",
	Long: "vitalens identifies a food from a photo or a name with Gemini, then looks up " +
		"its Vitamin K1 content in the CIQUAL composition table, falling back to the model's estimate.",
	SilenceUsage: true,
	// serve is the default action
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	// SIGINT/SIGTERM cancel in-flight lookups and stop the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
