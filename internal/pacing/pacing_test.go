package pacing_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"ssdwatch/internal/pacing"
)

func TestNextStaysWithinBounds(t *testing.T) {
	p := pacing.New(2*time.Second, 6*time.Second, pacing.WithRand(rand.New(rand.NewPCG(1, 2))))
	for i := 0; i < 1000; i++ {
		d := p.Next()
		if d < 2*time.Second || d > 6*time.Second {
			t.Fatalf("delay %v outside [2s, 6s]", d)
		}
	}
}

func TestNextSpreadsAcrossInterval(t *testing.T) {
	p := pacing.New(2*time.Second, 6*time.Second, pacing.WithRand(rand.New(rand.NewPCG(7, 11))))
	var low, high bool
	for i := 0; i < 1000; i++ {
		d := p.Next()
		if d < 3*time.Second {
			low = true
		}
		if d > 5*time.Second {
			high = true
		}
	}
	if !low || !high {
		t.Fatalf("expected delays in both tails (low=%v high=%v)", low, high)
	}
}

func TestNewNormalizesBounds(t *testing.T) {
	p := pacing.New(5*time.Second, time.Second)
	lo, hi := p.Bounds()
	if lo != time.Second || hi != 5*time.Second {
		t.Fatalf("expected swapped bounds, got %v-%v", lo, hi)
	}
	p = pacing.New(-time.Second, 0)
	lo, hi = p.Bounds()
	if lo != 0 || hi != pacing.DefaultMax {
		t.Fatalf("unexpected defaults %v-%v", lo, hi)
	}
}

func TestDelayUsesSleeper(t *testing.T) {
	var slept []time.Duration
	p := pacing.New(time.Second, time.Second, pacing.WithSleeper(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}))
	if err := p.Delay(context.Background()); err != nil {
		t.Fatalf("Delay returned error: %v", err)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("unexpected sleeps: %v", slept)
	}
}

func TestDelayHonoursCancellation(t *testing.T) {
	p := pacing.New(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Delay(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNilPacerIsNoop(t *testing.T) {
	var p *pacing.Pacer
	if err := p.Delay(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
