// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// logRecordMsg carries a log record into the status line.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// TUILogHandler is an slog.Handler that shows records in the table
// view's status line while the program runs. Records below the level
// are dropped. Background components (the Amadeus client, the store)
// log through it so that warnings surface without corrupting the
// terminal.
//
// Handlers derived via WithAttrs/WithGroup share the Dispatcher.
type TUILogHandler struct {
	level      slog.Level
	dispatcher *Dispatcher
	attrs      []slog.Attr
	groups     []string
}

// NewTUILogHandler creates a handler that posts records at or above
// level through dispatcher.
func NewTUILogHandler(dispatcher *Dispatcher, level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:      level,
		dispatcher: dispatcher,
	}
}

// Enabled reports whether the handler is interested in records at the
// given level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as "message (key=value, ...)" and posts
// it.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range handler.attrs {
		parts = appendAttr(parts, "", attr)
	}
	prefix := strings.Join(handler.groups, ".")
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, prefix, attr)
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	handler.dispatcher.Post(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs returns a handler with attrs appended. Attrs added after a
// WithGroup are qualified by the group.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := handler.clone()
	prefix := strings.Join(handler.groups, ".")
	for _, attr := range attrs {
		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}
		derived.attrs = append(derived.attrs, attr)
	}
	return derived
}

// WithGroup returns a handler that qualifies later attrs with name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := handler.clone()
	derived.groups = append(derived.groups, name)
	return derived
}

func (handler *TUILogHandler) clone() *TUILogHandler {
	return &TUILogHandler{
		level:      handler.level,
		dispatcher: handler.dispatcher,
		attrs:      slices.Clone(handler.attrs),
		groups:     slices.Clone(handler.groups),
	}
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	key := attr.Key
	switch {
	case prefix == "":
	case key == "":
		key = prefix
	default:
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, key, member)
		}
		return parts
	}
	return append(parts, key+"="+attr.Value.String())
}
