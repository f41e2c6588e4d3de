package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

// Role-based terminal palette. Commands reference roles, never raw
// colors, so the scheme can change in one place.
var (
	colorAccent = lipgloss.Color("36")  // teal, primary actions
	colorOK     = lipgloss.Color("35")  // green, success
	colorWarn   = lipgloss.Color("220") // amber, warnings
	colorErr    = lipgloss.Color("167") // soft red, errors
	colorLink   = lipgloss.Color("75")  // light blue, commands
	colorText   = lipgloss.Color("255") // bright white, values
	colorMuted  = lipgloss.Color("245") // gray, secondary text
	colorFaint  = lipgloss.Color("240") // dim gray, de-emphasized text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// =============================================================================
// Status Output
// =============================================================================

// statusGlyph is the one-character prefix of a status line.
type statusGlyph struct {
	icon  string
	color lipgloss.Color
}

var (
	glyphSuccess = statusGlyph{"✓", colorOK}
	glyphError   = statusGlyph{"✗", colorErr}
	glyphWarning = statusGlyph{"!", colorWarn}
	glyphInfo    = statusGlyph{"›", colorMuted}
)

// printStatus prints one glyph-prefixed line.
func printStatus(g statusGlyph, msg string) {
	prefix := lipgloss.NewStyle().Foreground(g.color).Render(g.icon)
	fmt.Println(prefix + " " + msg)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	printStatus(glyphSuccess, fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	printStatus(glyphError, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	printStatus(glyphWarning, styleWarn.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	printStatus(glyphInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Artifact Output
// =============================================================================

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Println("  " + styleDim.Render("→") + " " + styleValue.Render(path))
}

// printKeyValue prints a labeled value in a fixed-width label column.
func printKeyValue(key, value string) {
	label := lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	fmt.Println(label.Render(key) + " " + styleValue.Render(value))
}

// printStats prints node and edge counts plus the render cache status.
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d nodes", nodeCount)))
	}
	if edgeCount > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d edges", edgeCount)))
	}

	status, color := "fresh", colorMuted
	if cached {
		status, color = "cached", colorOK
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(color).Render(status))

	fmt.Println("  " + strings.Join(parts, styleDim.Render(" · ")))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
