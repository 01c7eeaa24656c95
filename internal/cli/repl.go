// Package cli implements the interactive read-evaluate-print loop around the
// agent. It only reads input and prints answers; all failure interpretation
// happens inside the agent.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/searchai/searchai/internal/agent"
)

// sentinels are inputs that terminate the session cleanly.
var sentinels = map[string]bool{
	"exit": true,
	"quit": true,
	"q":    true,
}

// REPL drives one interactive session against an agent.
type REPL struct {
	agent  *agent.Agent
	in     io.Reader
	out    io.Writer
	prompt string
}

func NewREPL(a *agent.Agent, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		agent:  a,
		in:     in,
		out:    out,
		prompt: "> ",
	}
}

// Run reads turns until a sentinel input, EOF, or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "searchai interactive mode (type 'exit' to quit)")

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(r.out, r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if sentinels[strings.ToLower(line)] {
			fmt.Fprintln(r.out, "bye")
			return nil
		}

		answer := r.agent.Turn(ctx, line)
		fmt.Fprintln(r.out, answer)
	}
}
