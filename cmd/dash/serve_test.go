package main

import (
	"strings"
	"testing"

	"github.com/gorewood/dash/internal/output"
)

// TestNewServeCmd verifies the serve command wires up correctly.
func TestNewServeCmd(t *testing.T) {
	cmd := newServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want %q", cmd.Use, "serve")
	}
	if cmd.RunE == nil {
		t.Error("RunE is nil")
	}
	for _, tool := range []string{"project", "start", "end", "status", "log"} {
		if !strings.Contains(cmd.Long, tool) {
			t.Errorf("help should list the %s tool", tool)
		}
	}
}

func TestServeCmd_Registered(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("serve not found: %v", err)
	}
	if cmd.Name() != "serve" {
		t.Fatalf("Find returned %q, want serve", cmd.Name())
	}
	if cmd.GroupID != "agent" {
		t.Errorf("GroupID = %q, want %q", cmd.GroupID, "agent")
	}
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	setupHome(t)

	out, err := runDash(t, "serve", "extra")
	if err == nil {
		t.Fatalf("expected error for extra argument, got output %q", out)
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}
