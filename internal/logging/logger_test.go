// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	if !ValidLevel("Debug") {
		t.Error("expected Debug to be valid")
	}
	if ValidLevel("loud") {
		t.Error("expected loud to be invalid")
	}
}

// The tests below reconfigure the global logger and therefore do not run in parallel.

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Str("family", "map").Msg("lookup")

	out := buf.String()
	if !strings.Contains(out, `"family":"map"`) || !strings.Contains(out, `"message":"lookup"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCtxAddsCorrelationAndActor(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithCorrelationID(context.Background(), "abc12345")
	ctx = ContextWithActor(ctx, "planner")
	Ctx(ctx).Info().Msg("saved")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"abc12345"`) {
		t.Errorf("missing correlation id: %s", out)
	}
	if !strings.Contains(out, `"actor":"planner"`) {
		t.Errorf("missing actor: %s", out)
	}
}

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	a, b := GenerateCorrelationID(), GenerateCorrelationID()
	if len(a) != 8 {
		t.Errorf("expected 8 characters, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	if got := CorrelationIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestSlogLoggerForwards(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	NewSlogLogger("supervisor").With("service", "repair").Warn("service restarted", "attempt", 2)

	out := buf.String()
	for _, want := range []string{`"component":"supervisor"`, `"service":"repair"`, `"attempt":2`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
