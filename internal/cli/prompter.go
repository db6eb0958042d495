package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"smartbudget/internal/core"
)

// Prompter asks questions on out and reads the answers from in.
type Prompter struct {
	in  *LineReader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: NewLineReader(in), out: out}
}

// Printf writes to the prompter's output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes one line to the prompter's output.
func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Line prints prompt and returns the trimmed answer.
func (p *Prompter) Line(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, FormatPrompt(prompt))
	return p.in.ReadLine(ctx)
}

// Confirm asks a yes/no question. Only y or yes confirm.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.Line(ctx, prompt)
	if err != nil {
		return false, err
	}
	return core.ParseYesNo(answer), nil
}

// Ask prompts until parse accepts the answer. Validation errors are shown
// and the question repeated; any other error, io.EOF included, is returned.
func Ask[T any](ctx context.Context, p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		answer, err := p.Line(ctx, prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		var verr *core.ValidationError
		if !errors.As(err, &verr) {
			var zero T
			return zero, err
		}
		p.Println(FormatError(fmt.Sprintf("Invalid %s: %v. Please try again.", verr.Field, verr.Err)))
	}
}
