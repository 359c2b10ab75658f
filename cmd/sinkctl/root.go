package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sinkctl",
	Short: "Resend webhook sink CLI",
	Long: `sinkctl is the operational companion to the webhook sink.

Sign payloads the way the webhook provider would, replay them against a
running sink, and check connector health.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}
