package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{"recalculate", "rank", "explain", "evaluate-designs", "migrate-status", "seed"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
}

func TestParseIDFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("project", "", "")

	id := uuid.New()
	_ = cmd.Flags().Set("project", id.String())
	got, err := parseIDFlag(cmd, "project")
	if err != nil || got != id {
		t.Fatalf("parseIDFlag = %v, %v", got, err)
	}

	_ = cmd.Flags().Set("project", "nope")
	if _, err := parseIDFlag(cmd, "project"); err == nil || !strings.Contains(err.Error(), "--project") {
		t.Fatalf("expected flag error, got %v", err)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, map[string]int{"scored": 3}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"scored": 3`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
