// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"strings"
	"time"
)

// Op names a version query.
type Op string

const (
	OpCurrent Op = "current"
	OpAll     Op = "all"
	OpOldest  Op = "oldest"
	OpNewest  Op = "newest"
	OpAt      Op = "at"
	OpNext    Op = "next"
	OpBetween Op = "between"
)

// Query selects versions of one timeline.
type Query struct {
	Op   Op
	From time.Time
	To   time.Time
}

// Current selects the single active version.
func Current() Query { return Query{Op: OpCurrent} }

// All selects every version.
func All() Query { return Query{Op: OpAll} }

// Oldest selects the earliest version.
func Oldest() Query { return Query{Op: OpOldest} }

// Newest selects the latest-starting version.
func Newest() Query { return Query{Op: OpNewest} }

// At selects the version in force at t.
func At(t time.Time) Query { return Query{Op: OpAt, From: t} }

// Next selects the first version starting after t.
func Next(t time.Time) Query { return Query{Op: OpNext, From: t} }

// Between selects versions spanning [from, to] plus the active version
// started by from.
func Between(from, to time.Time) Query { return Query{Op: OpBetween, From: from, To: to} }

// Multi reports whether the query yields a list rather than one version.
func (q Query) Multi() bool {
	return q.Op == OpAll || q.Op == OpBetween
}

// params renders the canonical parameter string used in cache keys.
func (q Query) params() string {
	switch q.Op {
	case OpAt, OpNext:
		return formatTime(q.From)
	case OpBetween:
		return formatTime(q.From) + "," + formatTime(q.To)
	default:
		return ""
	}
}

func (q Query) String() string {
	if p := q.params(); p != "" {
		return string(q.Op) + "(" + p + ")"
	}
	return string(q.Op)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseQuery maps the (from, to) vocabulary of the HTTP interface onto a
// Query:
//
//	"", ""             current
//	all|oldest|newest  (to ignored)
//	<time>, ""         at
//	<time>, next       next
//	<time>, <time>     between
//
// Times are RFC 3339 or YYYY-MM-DD (UTC midnight). Anything else is an
// AuditError.
func ParseQuery(from, to string) (Query, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	switch strings.ToLower(from) {
	case "":
		if to == "" {
			return Current(), nil
		}
		return Query{}, badInput(from, to)
	case "all":
		return All(), nil
	case "oldest":
		return Oldest(), nil
	case "newest":
		return Newest(), nil
	}

	start, ok := parseTime(from)
	if !ok {
		return Query{}, badInput(from, to)
	}
	if to == "" {
		return At(start), nil
	}
	if strings.EqualFold(to, "next") {
		return Next(start), nil
	}
	end, ok := parseTime(to)
	if !ok {
		return Query{}, badInput(from, to)
	}
	return Between(start, end), nil
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func badInput(from, to string) error {
	return &AuditError{Key: "query", Reason: "bad input, args: " + quoteArg(from) + ", " + quoteArg(to)}
}

func quoteArg(s string) string {
	if s == "" {
		return "nil"
	}
	return `"` + s + `"`
}
