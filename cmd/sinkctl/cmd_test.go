package main

import (
	"os"
	"path/filepath"
	"testing"
)

func runCommand(args ...string) error {
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.Execute()
}

func TestSign_RequiresSecret(t *testing.T) {
	os.Unsetenv("SINK_WEBHOOK_SECRET")

	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(`{"type":"email.sent"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := runCommand("sign", path); err == nil {
		t.Error("sign without a secret should fail")
	}
}

func TestSign_MissingPayloadFile(t *testing.T) {
	err := runCommand("sign", "/nonexistent/event.json", "--secret", "whsec_dGVzdA==")
	if err == nil {
		t.Error("sign with a missing payload file should fail")
	}
}

func TestSign_WritesHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(`{"type":"email.sent"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := runCommand("sign", path, "--secret", "whsec_dGVzdA==", "--id", "msg_test"); err != nil {
		t.Errorf("sign failed: %v", err)
	}
}

func TestPing_UnknownBackend(t *testing.T) {
	if err := runCommand("ping", "cassandra"); err == nil {
		t.Error("ping with an unknown backend should fail")
	}
}
