package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/resend-sink/pkg/svix"
)

var sendCmd = &cobra.Command{
	Use:   "send <payload-file>",
	Short: "Sign and deliver a payload",
	Long:  "Sign a payload file and POST it to a running sink, mimicking a provider delivery.",
	Example: `  sinkctl send event.json --secret whsec_... --backend sqlite
  sinkctl send event.json --secret whsec_... --url http://sink:8096 --id msg_replay`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		msgID, _ := cmd.Flags().GetString("id")
		baseURL, _ := cmd.Flags().GetString("url")
		backend, _ := cmd.Flags().GetString("backend")

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

		url := fmt.Sprintf("%s/webhooks/%s", baseURL, backend)
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}

		now := time.Now()
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(svix.HeaderID, msgID)
		req.Header.Set(svix.HeaderTimestamp, fmt.Sprintf("%d", now.Unix()))
		req.Header.Set(svix.HeaderSignature, wh.Sign(msgID, now, payload))

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to deliver: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("%s %s\n", resp.Status, bytes.TrimSpace(body))
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("delivery rejected with status %d", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringP("secret", "s", "", "Signing secret (whsec_...)")
	sendCmd.Flags().String("id", "", "Message ID (default: random msg_<uuid>)")
	sendCmd.Flags().String("url", "http://localhost:8096", "Sink base URL")
	sendCmd.Flags().StringP("backend", "b", "sqlite", "Backend route to deliver to")
}
