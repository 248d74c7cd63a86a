// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func collectLogRecords(level slog.Level) (*slog.Logger, *[]logRecordMsg) {
	var records []logRecordMsg
	dispatcher := NewDispatcherFunc(func(message tea.Msg) {
		if record, ok := message.(logRecordMsg); ok {
			records = append(records, record)
		}
	})
	return slog.New(NewTUILogHandler(dispatcher, level)), &records
}

func TestTUILogHandlerLevel(t *testing.T) {
	logger, records := collectLogRecords(slog.LevelWarn)

	logger.Info("loaded")
	logger.Warn("slow response", "elapsed", "2s")

	if len(*records) != 1 {
		t.Fatalf("records = %d, want 1", len(*records))
	}
	record := (*records)[0]
	if record.Summary != "slow response (elapsed=2s)" {
		t.Errorf("Summary = %q", record.Summary)
	}
	if record.Level != slog.LevelWarn {
		t.Errorf("Level = %v, want WARN", record.Level)
	}
}

func TestTUILogHandlerAttrsAndGroups(t *testing.T) {
	logger, records := collectLogRecords(slog.LevelInfo)

	logger.With("component", "amadeus").WithGroup("request").Error("failed", "status", 401, slog.Group("retry", "after", "1s"))

	if len(*records) != 1 {
		t.Fatalf("records = %d, want 1", len(*records))
	}
	want := "failed (component=amadeus, request.status=401, request.retry.after=1s)"
	if got := (*records)[0].Summary; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestTUILogHandlerWithoutProgram(t *testing.T) {
	logger := slog.New(NewTUILogHandler(NewDispatcher(), slog.LevelDebug))
	// No program attached: records are dropped without blocking.
	logger.Error("dropped")
}

func TestLogRecordReachesStatusLine(t *testing.T) {
	model, _ := newTestModel(t, sampleRows())

	model = update(t, model, logRecordMsg{Summary: "token refresh failed", Level: slog.LevelError})
	if model.Status() != "token refresh failed" {
		t.Errorf("Status = %q", model.Status())
	}
}
