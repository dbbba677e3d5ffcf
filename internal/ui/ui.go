package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	accent    = lipgloss.Color("#22c55e")
	subtle    = lipgloss.Color("#666666")
	highlight = lipgloss.Color("#60a5fa")
	warning   = lipgloss.Color("#eab308")
	danger    = lipgloss.Color("#ef4444")
	info      = lipgloss.Color("#06b6d4")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(accent)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)

	mutedStyle = lipgloss.NewStyle().
			Foreground(subtle)

	highlightStyle = lipgloss.NewStyle().Foreground(highlight).Bold(true)

	greenStyle  = lipgloss.NewStyle().Foreground(accent)
	yellowStyle = lipgloss.NewStyle().Foreground(warning)
	redStyle    = lipgloss.NewStyle().Foreground(danger)
	cyanStyle   = lipgloss.NewStyle().Foreground(info)
	grayStyle   = lipgloss.NewStyle().Foreground(subtle)
)

var noColor bool

// SetNoColor disables all styling; text renders as-is.
func SetNoColor(v bool) {
	noColor = v
}

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

func Green(text string) string {
	return render(greenStyle, text)
}

func Yellow(text string) string {
	return render(yellowStyle, text)
}

func Red(text string) string {
	return render(redStyle, text)
}

func Cyan(text string) string {
	return render(cyanStyle, text)
}

func Gray(text string) string {
	return render(grayStyle, text)
}

func Header(text string) {
	fmt.Println(render(titleStyle, "=== "+text+" ==="))
}

func Success(text string) {
	fmt.Println(render(successStyle, "✓ "+text))
}

func Error(text string) {
	fmt.Println(render(errorStyle, "✗ "+text))
}

func Info(text string) {
	fmt.Println("  " + text)
}

func Muted(text string) {
	fmt.Println(render(mutedStyle, text))
}

func Warn(text string) {
	fmt.Println(render(yellowStyle, "⚠ "+text))
}

func Confirm(question string, defaultVal bool) (bool, error) {
	var result bool = defaultVal

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&result),
		),
	)

	err := form.Run()
	return result, err
}

func SelectOption(title string, options []string) (string, error) {
	var selected string

	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&selected),
		),
	)

	err := form.Run()
	return selected, err
}

func Input(title, placeholder string) (string, error) {
	var value string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)

	err := form.Run()
	return value, err
}

// HasTTY reports whether a controlling terminal is available for prompts.
func HasTTY() bool {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// TerminalWidth returns the stdout width, or 80 when it cannot be measured.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// TruncateLine caps a line at maxWidth. Widths below 10 cut hard; wider
// lines get an ellipsis. Zero or negative widths pass through.
func TruncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	if len(s) <= maxWidth {
		return s
	}
	if maxWidth < 10 {
		return s[:maxWidth]
	}
	return s[:maxWidth-3] + "..."
}

// HighlightMatches renders the bytes at the given indexes in the highlight
// color. Indexes come from fuzzy matching against the same string.
func HighlightMatches(text string, indexes []int) string {
	if len(indexes) == 0 {
		return text
	}
	set := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		set[idx] = true
	}
	var b strings.Builder
	for i, r := range text {
		if set[i] {
			b.WriteString(render(highlightStyle, string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
