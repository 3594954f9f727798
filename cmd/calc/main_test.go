package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunPrintsDisplayPerButton(t *testing.T) {
	var out bytes.Buffer

	if err := run(strings.NewReader("5 + 3\n* 2 ="), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "5\n5\n3\n8\n2\n16\n"
	if got := out.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRunSkipsUnknownTokens(t *testing.T) {
	var out bytes.Buffer

	if err := run(strings.NewReader("9 pow sqrt"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "9\n3\n"
	if got := out.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRunShowsErrorMarkerAndRecovers(t *testing.T) {
	var out bytes.Buffer

	if err := run(strings.NewReader("1 / 0 = 7"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[3] != "Error" || lines[4] != "7" {
		t.Fatalf("expected Error then 7, got %q", lines)
	}
}
