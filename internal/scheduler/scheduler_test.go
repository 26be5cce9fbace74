package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunInvokesTickUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	ticks := 0
	err := s.Run(ctx, func(context.Context, time.Time) error {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", ticks)
	}
}

func TestRunTickErrorIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Options{Interval: time.Millisecond}, zerolog.Nop())

	ticks := 0
	err := s.Run(ctx, func(context.Context, time.Time) error {
		ticks++
		if ticks == 2 {
			cancel()
		}
		return errors.New("cycle blew up")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks != 2 {
		t.Fatalf("tick errors must not stop the loop, got %d ticks", ticks)
	}
}

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive interval")
		}
	}()
	New(Options{Interval: 0}, zerolog.Nop())
}
