// Package prompt asks the operator yes/no questions on an injectable reader.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// readLine reads a single line from input, returning early if ctx is cancelled.
// On EOF it returns ("", nil), which callers treat as a refusal.
// The reading goroutine may outlive the call on cancellation.
func readLine(ctx context.Context, input io.Reader) (string, error) {
	ch := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		if scanner.Scan() {
			ch <- scanner.Text()
		} else {
			ch <- ""
		}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-ch:
		return line, nil
	}
}

// Confirm writes prompt to output and reads the answer from input.
// It returns true only for "y" or "yes", case-insensitive and trimmed.
func Confirm(ctx context.Context, prompt string, input io.Reader, output io.Writer) (bool, error) {
	fmt.Fprint(output, prompt) //nolint:errcheck // best-effort output
	line, err := readLine(ctx, input)
	if err != nil {
		return false, err
	}
	return Accepts(line), nil
}

// Accepts reports whether answer is an affirmative reply.
func Accepts(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
