package cli

import (
	"io"
	"strings"
	"testing"
)

func TestUnknownFlag_ShowsHelpAndUsageError(t *testing.T) {
	t.Parallel()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"serve", "--unknown-flag"})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "unknown flag") || !strings.Contains(err.Error(), "Usage:") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestRootWithoutArgs_ShowsHelp(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(nil)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, sub := range []string{"serve", "render", "example", "mcp"} {
		if !strings.Contains(out.String(), sub) {
			t.Errorf("help output missing %q subcommand", sub)
		}
	}
}
