package service

import (
	"context"
	"errors"
	"time"

	"forcemap/internal/editor"
)

// ErrSessionClosed is returned for commands submitted after Run returned
var ErrSessionClosed = errors.New("session closed")

// DefaultTickInterval paces simulation steps at about 60 per second
const DefaultTickInterval = 16 * time.Millisecond

type command struct {
	fn      func(*editor.Editor) error
	publish bool
	done    chan error
}

// Session owns one editor and runs every command and simulation step on a
// single goroutine
type Session struct {
	editor   *editor.Editor
	bus      *EventBus
	interval time.Duration

	commands chan command
	stopped  chan struct{}
}

// NewSession creates a session; call Run to start it
func NewSession(ed *editor.Editor, bus *EventBus, interval time.Duration) *Session {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Session{
		editor:   ed,
		bus:      bus,
		interval: interval,
		commands: make(chan command),
		stopped:  make(chan struct{}),
	}
}

// Run processes commands and steps the simulation while it is active.
// It returns when ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.publishFrame()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-s.commands:
			err := cmd.fn(s.editor)
			if cmd.publish {
				s.publishFrame()
			}
			cmd.done <- err

		case <-ticker.C:
			if s.editor.Active() {
				s.editor.Step()
				s.publishFrame()
			}
		}
	}
}

// Do runs fn on the session goroutine and publishes a frame afterwards.
// It blocks until fn ran or ctx is done before fn was accepted.
func (s *Session) Do(ctx context.Context, fn func(*editor.Editor) error) error {
	return s.submit(ctx, fn, true)
}

// View runs a read-only fn on the session goroutine
func (s *Session) View(ctx context.Context, fn func(*editor.Editor) error) error {
	return s.submit(ctx, fn, false)
}

func (s *Session) submit(ctx context.Context, fn func(*editor.Editor) error, publish bool) error {
	cmd := command{fn: fn, publish: publish, done: make(chan error, 1)}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrSessionClosed
	}
	return <-cmd.done
}

func (s *Session) publishFrame() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(Event{Type: EventFrame, Payload: s.editor.Frame()})
}
