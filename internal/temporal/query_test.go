// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"errors"
	"testing"
	"time"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		want     Query
		wantErr  bool
	}{
		{"", "", Current(), false},
		{"all", "", All(), false},
		{"OLDEST", "", Oldest(), false},
		{"newest", "ignored", Newest(), false},
		{"2015-02-01", "", At(feb), false},
		{"2015-02-01T00:00:00Z", "next", Next(feb), false},
		{"2015-01-01", "2015-03-01T00:00:00+00:00", Between(jan, mar), false},
		{"2015-02-01T08:00:00+08:00", "", At(feb), false},
		{"", "next", Query{}, true},
		{"yesterday", "", Query{}, true},
		{"2015-01-01", "later", Query{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.from+"|"+tt.to, func(t *testing.T) {
			t.Parallel()
			got, err := ParseQuery(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrAudit) {
					t.Fatalf("ParseQuery(%q, %q) error = %v, want audit error", tt.from, tt.to, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuery(%q, %q) error = %v", tt.from, tt.to, err)
			}
			if got.Op != tt.want.Op || !got.From.Equal(tt.want.From) || !got.To.Equal(tt.want.To) {
				t.Errorf("ParseQuery(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestQueryParamsAreCanonical(t *testing.T) {
	t.Parallel()

	perth := time.FixedZone("AWST", 8*3600)
	a := At(feb)
	b := At(feb.In(perth))
	if a.params() != b.params() {
		t.Errorf("params differ across zones: %q vs %q", a.params(), b.params())
	}
	if Between(jan, feb).params() == Between(feb, jan).params() {
		t.Error("between params must keep their order")
	}
	if got := Next(jan).String(); got != "next(2015-01-01T00:00:00Z)" {
		t.Errorf("String() = %q", got)
	}
}
