package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/resend-sink/internal/config"
	"github.com/telhawk-systems/resend-sink/internal/store"
)

var pingCmd = &cobra.Command{
	Use:   "ping <backend>",
	Short: "Check connector health",
	Long:  "Build the named connector from the sink configuration and verify a connection can be acquired.",
	Example: `  sinkctl ping sqlite
  sinkctl ping postgres --config /etc/resend-sink/config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		conn, err := store.Build(args[0], cfg.Connectors)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		start := time.Now()
		client, err := conn.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("%s: unreachable: %w", conn.Name(), err)
		}
		if err := client.Release(ctx); err != nil {
			return fmt.Errorf("%s: release failed: %w", conn.Name(), err)
		}

		fmt.Printf("%s: ok (%s)\n", conn.Name(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().String("config", "", "Path to the sink config file")
	pingCmd.Flags().Duration("timeout", 10*time.Second, "Connection timeout")
}
