package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/playlist-api/pkg/config"
)

func TestServeCommand(t *testing.T) {
	out, err := execute(t, "serve", "--help")
	if err != nil {
		t.Fatalf("serve --help: %v", err)
	}
	if !strings.Contains(out, "Start the Playlist API server") {
		t.Errorf("Expected serve help, got %q", out)
	}

	if _, err := execute(t, "serve", "--port", "invalid"); err == nil {
		t.Error("Expected an invalid port to fail")
	}
}

func TestServeStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	config.Reset()
	t.Cleanup(config.Reset)

	cmd := NewRootCmd()
	cmd.SetArgs(dataArgs(dir, "serve", "--host", "127.0.0.1", "--port", "0"))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected a clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop after its context ended")
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Failed to find serve command: %v", err)
	}

	for _, name := range []string{"port", "host"} {
		if serveCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected %s flag to be registered", name)
		}
	}
}
