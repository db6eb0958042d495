package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbudget/internal/core"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single line", input: "hello\n", want: []string{"hello"}},
		{name: "whitespace trimmed", input: "  hello  \n", want: []string{"hello"}},
		{name: "empty line", input: "\n", want: []string{""}},
		{name: "last line without newline", input: "a\nb", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			for _, want := range tt.want {
				got, err := r.ReadLine(context.Background())
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			_, err := r.ReadLine(context.Background())
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestLineReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLineReader(strings.NewReader("x\n")).ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestLineReader_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewLineReader(nil) })
}

func TestAsk_RepromptsOnValidationError(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("abc\n-3\n0\n12.50\n"), &out)

	amount, err := Ask(context.Background(), p, "Amount:", core.ParsePositiveAmount)
	require.NoError(t, err)
	assert.Equal(t, "12.50", amount.String())
	assert.Equal(t, 3, strings.Count(out.String(), "Please try again."))
	assert.Equal(t, 4, strings.Count(out.String(), "Amount:"))
	assert.Contains(t, out.String(), "Invalid amount")
}

func TestAsk_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("2024-13-01\n"), io.Discard)
	_, err := Ask(context.Background(), p, "Date:", core.ParseDate)
	assert.ErrorIs(t, err, io.EOF)
}

func TestAsk_OtherErrorsAreReturned(t *testing.T) {
	boom := errors.New("boom")
	p := NewPrompter(strings.NewReader("x\ny\n"), io.Discard)
	_, err := Ask(context.Background(), p, "?", func(string) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes \n": true,
		"n\n":     false,
		"maybe\n": false,
		"\n":      false,
	}
	for input, want := range tests {
		p := NewPrompter(strings.NewReader(input), io.Discard)
		got, err := p.Confirm(context.Background(), "Sure? (y/n):")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestFormatPrompt_KeepsOneTrailingSpace(t *testing.T) {
	assert.True(t, strings.HasSuffix(FormatPrompt("Enter your choice:   "), " "))
	assert.False(t, strings.HasSuffix(FormatPrompt("Enter your choice:   "), "  "))
	assert.Contains(t, FormatPrompt("Enter your choice:"), "Enter your choice:")
}
