package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/internal/errors"
)

func TestRunExplainList(t *testing.T) {
	var buf bytes.Buffer
	if err := runExplain(&buf, ""); err != nil {
		t.Fatalf("runExplain: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(errors.GetAllCodes()) {
		t.Errorf("expected one line per code, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "C001  config   ") {
		t.Errorf("first line = %q, want codes sorted with their category", lines[0])
	}
}

func TestRunExplainCode(t *testing.T) {
	var buf bytes.Buffer
	if err := runExplain(&buf, "r003"); err != nil {
		t.Fatalf("runExplain: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"R003: Computed read itself while computing",
		"Category:   runtime",
		"Learn more: https://reactor.vango.dev/errors/R003",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}

	if err := runExplain(&buf, "Z999"); errors.Code(err) != "X004" {
		t.Errorf("expected X004 for an unknown code, got %v", err)
	}
}
