// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the table UI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Cursor cell.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// DirtyBackground tints cells edited since the last commit.
	DirtyBackground lipgloss.Color

	// DraftForeground colors a cell whose edit is still in its quiet
	// period.
	DraftForeground lipgloss.Color

	// FilterForeground marks headers with an active filter.
	FilterForeground lipgloss.Color

	// Status line severities.
	StatusInfo  lipgloss.Color
	StatusWarn  lipgloss.Color
	StatusError lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	DirtyBackground: lipgloss.Color("58"), // dark amber
	DraftForeground: lipgloss.Color("220"),

	FilterForeground: lipgloss.Color("75"),

	StatusInfo:  lipgloss.Color("114"),
	StatusWarn:  lipgloss.Color("220"),
	StatusError: lipgloss.Color("196"),
}
