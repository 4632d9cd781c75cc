// Package ui holds the lipgloss styles and message helpers for
// operator-facing output.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	cyan   = lipgloss.Color("86")
	purple = lipgloss.Color("99")
	dim    = lipgloss.Color("243")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	infoStyle    = lipgloss.NewStyle().Foreground(cyan)
	headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(dim)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// Message helpers return single-line strings without a trailing newline.

func SuccessMsg(format string, a ...any) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return errorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

func WarnMsg(format string, a ...any) string {
	return warnStyle.Render("!") + " " + fmt.Sprintf(format, a...)
}

func InfoMsg(format string, a ...any) string {
	return infoStyle.Render("●") + " " + fmt.Sprintf(format, a...)
}

// Bold renders emphasized inline text.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Header renders a section title.
func Header(s string) string {
	return headerStyle.Render(s)
}

// Connection renders the connected/disconnected badge.
func Connection(connected bool) string {
	if connected {
		return successStyle.Render("connected")
	}

	return errorStyle.Render("disconnected")
}

// KeyValues renders aligned "key:  value" lines with a trailing newline.
func KeyValues(indent string, pairs ...[2]string) string {
	maxLen := 0
	for _, p := range pairs {
		if len(p[0]) > maxLen {
			maxLen = len(p[0])
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", maxLen+1, p[0]+":")
		sb.WriteString(indent + labelStyle.Render(label) + " " + p[1] + "\n")
	}

	return sb.String()
}
