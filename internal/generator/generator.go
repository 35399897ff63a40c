// Package generator is the boundary to the remote text-generation provider.
//
// A call is a single attempt with a hard timeout. There are no retries and no
// fallback model, and an empty or malformed response is a failure rather
// than something to repair.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Unavailable always fails. It stands in when no provider is configured so
// AI intents are recorded as errors instead of blocking simple ones.
type Unavailable struct {
	Reason error
}

func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("ai provider unavailable: %w", u.Reason)
}

// Boundary wraps a Generator with the timeout and response checks.
type Boundary struct {
	gen     Generator
	timeout time.Duration
}

func NewBoundary(gen Generator, timeout time.Duration) *Boundary {
	if timeout <= 0 {
		timeout = constants.DefaultAITimeout
	}
	return &Boundary{gen: gen, timeout: timeout}
}

type result struct {
	text string
	err  error
}

// Generate makes exactly one call. It returns when the provider answers or
// the timeout fires, whichever is first, even if the provider ignores ctx.
// Every failure is tagged as a provider error.
func (b *Boundary) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		text, err := b.gen.Generate(ctx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", apperrors.Provider(fmt.Errorf("generation timed out after %s: %w", b.timeout, ctx.Err()))
	case r := <-done:
		if r.err != nil {
			return "", apperrors.Provider(r.err)
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return "", apperrors.Provider(fmt.Errorf("empty response"))
		}
		return text, nil
	}
}

// BuildPrompt renders AI generation parameters into a single prompt.
func BuildPrompt(ai models.AIContent) string {
	var b strings.Builder
	if ai.Role != "" {
		fmt.Fprintf(&b, "You are writing as: %s.\n", ai.Role)
	}
	if ai.Platform != "" {
		fmt.Fprintf(&b, "Write a post for %s.\n", ai.Platform)
	} else {
		b.WriteString("Write a short post.\n")
	}
	if ai.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", ai.Tone)
	}
	b.WriteString("Return only the post text, with no preamble.\n\n")
	b.WriteString(strings.TrimSpace(ai.Prompt))
	return b.String()
}
