// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui writes the operator-facing progress report.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed messages shown by the pipeline.
const (
	MsgDone    = "Done !"
	MsgGoBack  = "Please check your mistakes and try again !"
	MsgSuccess = "Hey dude, you passed the precommit !! Great Job !!"
)

// Reporter renders styled lines to an output stream. Styling is dropped
// when the stream is not a terminal.
type Reporter struct {
	w io.Writer

	banner  lipgloss.Style
	heading lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("6")),
		heading: r.NewStyle().Foreground(lipgloss.Color("6")),
		info:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Writer exposes the raw stream for subprocess output.
func (r *Reporter) Writer() io.Writer { return r.w }

// line styles each line on its own so multi-line messages are not padded
// to a common width.
func (r *Reporter) line(style lipgloss.Style, msg string) {
	for _, l := range strings.Split(msg, "\n") {
		_, _ = fmt.Fprintln(r.w, style.Render(l))
	}
}

// Banner prints the tool title.
func (r *Reporter) Banner(title string) { r.line(r.banner, title) }

// Heading announces a check.
func (r *Reporter) Heading(label string) {
	r.line(r.heading, fmt.Sprintf("* Checking %s ...", label))
}

// Done marks the current check as passed.
func (r *Reporter) Done() { r.line(r.info, MsgDone) }

// Info prints a success or neutral line.
func (r *Reporter) Info(msg string) { r.line(r.info, msg) }

// Warn prints a warning line.
func (r *Reporter) Warn(msg string) { r.line(r.warn, msg) }

// Error prints an error line.
func (r *Reporter) Error(msg string) { r.line(r.err, msg) }

// Plain prints text unstyled, adding a trailing newline if missing.
func (r *Reporter) Plain(text string) {
	if text == "" {
		return
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = io.WriteString(r.w, text)
}

// Failure prints a failed check's diagnostic followed by the retry hint.
func (r *Reporter) Failure(reason string) {
	if reason != "" {
		r.Warn(reason)
	}
	r.Warn(MsgGoBack)
}
