// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractive_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"yes", "yes\n", true},
		{"german ja", "ja\n", true},
		{"with spaces", "  y  \n", true},
		{"empty takes default", "\n", true},
		{"no", "n\n", false},
		{"NO", "NO\n", false},
		{"random text", "maybe\n", false},
		{"no trailing newline", "y", true},
		{"EOF", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewInteractiveWithIO(strings.NewReader(tt.input), &out, true)

			got, err := p.Confirm(context.Background(), "Can you confirm ?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInteractive_DefaultNo(t *testing.T) {
	var out bytes.Buffer
	p := NewInteractiveWithIO(strings.NewReader("\n"), &out, false)

	got, err := p.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "(y/n) [n]")
}

func TestInteractive_Prompt(t *testing.T) {
	var out bytes.Buffer
	p := NewInteractiveWithIO(strings.NewReader("y\n"), &out, true)

	_, err := p.Confirm(context.Background(), "Can you confirm ?")
	require.NoError(t, err)
	assert.Equal(t, "Can you confirm ? (y/n) [y] ", out.String())
}

func TestInteractive_SequentialAnswers(t *testing.T) {
	p := NewInteractiveWithIO(strings.NewReader("y\nn\n"), io.Discard, true)

	first, err := p.Confirm(context.Background(), "first")
	require.NoError(t, err)
	second, err := p.Confirm(context.Background(), "second")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestInteractive_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewInteractiveWithIO(r, io.Discard, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Confirm(ctx, "Continue?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFixed(t *testing.T) {
	ok, err := AlwaysApprove.Confirm(context.Background(), "?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlwaysDeny.Confirm(context.Background(), "?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmer_InterfaceCompliance(t *testing.T) {
	var _ Confirmer = (*Interactive)(nil)
	var _ Confirmer = AlwaysApprove
}
