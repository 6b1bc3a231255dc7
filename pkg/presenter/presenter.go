// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning, and informational output with
// color support and quiet mode.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Presenter defines the interface for consistent CLI output.
type Presenter interface {
	Error(err error, context string)
	Success(message string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// ColorMode represents different color output modes.
type ColorMode int

const (
	// ColorAuto detects whether to use color from terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colored output.
	ColorNever
)

// TerminalPresenter implements Presenter for terminal output.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

var defaultPresenter Presenter = New()

// New creates a TerminalPresenter writing to stdout/stderr with
// auto-detected color.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with custom settings.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
	}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return ColorNever
	}
	return ColorAuto
}

// Error prints an error with optional context to the error stream.
// Errors are shown even in quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}
	msg := err.Error()
	if context != "" {
		msg = fmt.Sprintf("%s: %s", context, msg)
	}
	fmt.Fprintln(p.errorOutput, color.RedString("Error: %s", msg))
}

// Success prints a success message.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, color.GreenString("✓ %s", message))
}

// Warning prints a warning message.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, color.YellowString("⚠ %s", message))
}

// Info prints an informational message.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section prints a titled section header.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "\n%s\n%s\n", color.CyanString(title), strings.Repeat("-", len(title)))
}

// Separator prints a visual divider.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, strings.Repeat("-", 40))
}

// SetQuiet toggles quiet mode.
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is active.
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

// Package-level helpers that delegate to the default presenter.

// Error prints an error via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success prints a success message via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning prints a warning via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info prints a message via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section prints a section header via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// Separator prints a divider via the default presenter.
func Separator() { defaultPresenter.Separator() }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
