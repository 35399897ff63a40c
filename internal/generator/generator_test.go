package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/Kuldeep-Sharmaa/remindrai/internal/errors"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

func TestBoundary_Generate(t *testing.T) {
	tests := []struct {
		name    string
		gen     Generator
		want    string
		wantErr bool
	}{
		{
			name: "trims response",
			gen:  Func(func(context.Context, string) (string, error) { return "  Ship it.\n", nil }),
			want: "Ship it.",
		},
		{
			name:    "provider error",
			gen:     Func(func(context.Context, string) (string, error) { return "", errors.New("HTTP 529 overloaded") }),
			wantErr: true,
		},
		{
			name:    "empty response is a failure",
			gen:     Func(func(context.Context, string) (string, error) { return " \n\t", nil }),
			wantErr: true,
		},
		{
			name:    "panic is contained",
			gen:     Func(func(context.Context, string) (string, error) { panic("decoder blew up") }),
			wantErr: true,
		},
		{
			name:    "unavailable provider",
			gen:     Unavailable{Reason: errors.New("no api key")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBoundary(tt.gen, time.Second).Generate(context.Background(), "prompt")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperrors.Classify(err) != apperrors.KindProvider {
				t.Errorf("Classify() = %s, want provider", apperrors.Classify(err))
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoundary_TimeoutIsHard(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// The provider ignores its context entirely.
	slow := Func(func(context.Context, string) (string, error) {
		<-release
		return "too late", nil
	})

	start := time.Now()
	_, err := NewBoundary(slow, 50*time.Millisecond).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Generate blocked for %s", elapsed)
	}
}

func TestBoundary_CallsOnce(t *testing.T) {
	calls := 0
	gen := Func(func(context.Context, string) (string, error) {
		calls++
		return "", errors.New("boom")
	})
	_, _ = NewBoundary(gen, time.Second).Generate(context.Background(), "prompt")
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(models.AIContent{
		Prompt:   "  Announce our v2 launch  ",
		Role:     "founder",
		Tone:     "confident",
		Platform: "LinkedIn",
	})
	for _, want := range []string{"founder", "confident", "LinkedIn", "Announce our v2 launch"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt %q missing %q", prompt, want)
		}
	}
	if !strings.HasSuffix(prompt, "Announce our v2 launch") {
		t.Errorf("user prompt should come last and be trimmed: %q", prompt)
	}

	bare := BuildPrompt(models.AIContent{Prompt: "Hello"})
	if strings.Contains(bare, "Tone:") || strings.Contains(bare, "You are writing as") {
		t.Errorf("empty fields should be omitted: %q", bare)
	}
}
