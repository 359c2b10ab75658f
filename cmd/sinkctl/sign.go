package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/resend-sink/pkg/svix"
)

var signCmd = &cobra.Command{
	Use:   "sign <payload-file>",
	Short: "Sign a payload",
	Long:  "Compute the svix headers for a payload file so it can be replayed against a sink.",
	Example: `  sinkctl sign event.json --secret whsec_...
  sinkctl sign event.json --secret whsec_... --id msg_fixed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		msgID, _ := cmd.Flags().GetString("id")

		if secret == "" {
			secret = os.Getenv("SINK_WEBHOOK_SECRET")
		}
		if secret == "" {
			return fmt.Errorf("signing secret is required (use --secret or SINK_WEBHOOK_SECRET)")
		}
		if msgID == "" {
			msgID = "msg_" + uuid.New().String()
		}

		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		wh, err := svix.NewWebhook(secret)
		if err != nil {
			return err
		}

		now := time.Now()
		fmt.Printf("%s: %s\n", svix.HeaderID, msgID)
		fmt.Printf("%s: %d\n", svix.HeaderTimestamp, now.Unix())
		fmt.Printf("%s: %s\n", svix.HeaderSignature, wh.Sign(msgID, now, payload))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringP("secret", "s", "", "Signing secret (whsec_...)")
	signCmd.Flags().String("id", "", "Message ID (default: random msg_<uuid>)")
}
