package interaction

import (
	"errors"

	"forcemap/internal/render"
)

// ErrCancelled reports that the user dismissed the prompt or left it empty
var ErrCancelled = errors.New("input cancelled")

// Prompt text shown when asking for a new task label
const (
	PromptMessage = "Enter text for the new task:"
	PromptDefault = "New Task"
)

// Answer returns a prompt that already knows the user's reply. An empty
// reply counts as a cancellation.
func Answer(text string) render.Prompt {
	return func(string, string) (string, bool) {
		return text, text != ""
	}
}

// Cancelled returns a prompt the user dismissed
func Cancelled() render.Prompt {
	return func(string, string) (string, bool) {
		return "", false
	}
}

func ask(p render.Prompt) (string, error) {
	if p == nil {
		return "", ErrCancelled
	}
	text, ok := p(PromptMessage, PromptDefault)
	if !ok || text == "" {
		return "", ErrCancelled
	}
	return text, nil
}
