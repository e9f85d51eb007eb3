// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt asks the operator to confirm risky changes.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Interactive reads answers line by line from a reader.
//
// An empty answer takes the default. Answers starting with "y" or "j" are
// yes; anything else is no. EOF is no.
type Interactive struct {
	in         *bufio.Reader
	out        io.Writer
	defaultYes bool
}

// NewInteractive prompts on stdout and reads stdin. Empty answers mean yes.
func NewInteractive() *Interactive {
	return NewInteractiveWithIO(os.Stdin, os.Stdout, true)
}

// NewInteractiveWithIO prompts on w and reads answers from r.
func NewInteractiveWithIO(r io.Reader, w io.Writer, defaultYes bool) *Interactive {
	return &Interactive{in: bufio.NewReader(r), out: w, defaultYes: defaultYes}
}

func (p *Interactive) Confirm(ctx context.Context, question string) (bool, error) {
	hint := "(y/n) [n]"
	if p.defaultYes {
		hint = "(y/n) [y]"
	}
	if _, err := fmt.Fprintf(p.out, "%s %s ", question, hint); err != nil {
		return false, err
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a = <-ch:
	}

	if a.err != nil && a.line == "" {
		if a.err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("reading answer: %w", a.err)
	}
	return p.parse(a.line), nil
}

func (p *Interactive) parse(line string) bool {
	v := strings.ToLower(strings.TrimSpace(line))
	if v == "" {
		return p.defaultYes
	}
	return strings.HasPrefix(v, "y") || strings.HasPrefix(v, "j")
}

// Fixed answers every question the same way without reading input.
type Fixed bool

const (
	// AlwaysApprove approves every question.
	AlwaysApprove Fixed = true
	// AlwaysDeny declines every question.
	AlwaysDeny Fixed = false
)

func (f Fixed) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(f), nil
}
