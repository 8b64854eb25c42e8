//go:build !integration

package policy

import (
	"testing"
	"time"

	"soulsync/internal/domain/model"

	"github.com/google/go-cmp/cmp"
)

func TestDurationForStrike(t *testing.T) {
	cases := []struct {
		n    int
		want time.Duration
	}{
		{-3, 5 * time.Minute},
		{0, 5 * time.Minute},
		{1, 5 * time.Minute},
		{2, 30 * time.Minute},
		{3, 24 * time.Hour},
		{4, 7 * 24 * time.Hour},
		{5, 30 * 24 * time.Hour},
		{6, 365 * 24 * time.Hour},
		{7, 365 * 24 * time.Hour},
		{100, 365 * 24 * time.Hour},
	}
	for _, tc := range cases {
		if got := DurationForStrike(tc.n); got != tc.want {
			t.Errorf("DurationForStrike(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("admits a quiet user", func(t *testing.T) {
		d := Evaluate(model.SpamState{}, 0, now)
		if !d.Admitted() {
			t.Fatalf("expected admit, got %v", d.Verdict)
		}
		if d.Message() != "" {
			t.Errorf("admit should carry no message, got %q", d.Message())
		}
	})

	t.Run("fourth post in the window is still admitted", func(t *testing.T) {
		if d := Evaluate(model.SpamState{}, 3, now); !d.Admitted() {
			t.Fatalf("expected admit, got %v", d.Verdict)
		}
	})

	t.Run("fifth post trips the first strike", func(t *testing.T) {
		// --- Act ---
		d := Evaluate(model.SpamState{}, 4, now)

		// --- Assert ---
		want := Decision{
			Verdict:   VerdictBurst,
			State:     model.SpamState{Strikes: 1, BlockedUntil: now.Add(5 * time.Minute)},
			Remaining: 5 * time.Minute,
		}
		if diff := cmp.Diff(want, d); diff != "" {
			t.Errorf("Evaluate mismatch (-want +got):\n%s", diff)
		}
		if got := d.Message(); got != "Spam detected. You are blocked for 5 minutes." {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("repeat offender climbs the ladder", func(t *testing.T) {
		prev := model.SpamState{Strikes: 2, BlockedUntil: now.Add(-time.Hour)}
		d := Evaluate(prev, 10, now)
		if d.Verdict != VerdictBurst || d.State.Strikes != 3 {
			t.Fatalf("unexpected decision %+v", d)
		}
		if !d.State.BlockedUntil.Equal(now.Add(24 * time.Hour)) {
			t.Errorf("BlockedUntil = %v, want +24h", d.State.BlockedUntil)
		}
		if got := d.Message(); got != "Spam detected. You are blocked for 1440 minutes." {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("blocked user is rejected without a new strike", func(t *testing.T) {
		st := model.SpamState{Strikes: 1, BlockedUntil: now.Add(3*time.Minute + 20*time.Second)}
		d := Evaluate(st, 0, now)
		if d.Verdict != VerdictBlocked {
			t.Fatalf("expected blocked, got %v", d.Verdict)
		}
		if diff := cmp.Diff(st, d.State); diff != "" {
			t.Errorf("state must be untouched (-want +got):\n%s", diff)
		}
		if got := d.Message(); got != "You are blocked for another 4 minutes." {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("remaining time rounds up to the next minute", func(t *testing.T) {
		cases := []struct {
			left time.Duration
			want string
		}{
			{20 * time.Second, "You are blocked for another 1 minutes."},
			{time.Minute, "You are blocked for another 1 minutes."},
			{time.Minute + time.Second, "You are blocked for another 2 minutes."},
		}
		for _, tc := range cases {
			st := model.SpamState{Strikes: 1, BlockedUntil: now.Add(tc.left)}
			if got := Evaluate(st, 0, now).Message(); got != tc.want {
				t.Errorf("left %v: got %q, want %q", tc.left, got, tc.want)
			}
		}
	})

	t.Run("an expired ban no longer blocks", func(t *testing.T) {
		st := model.SpamState{Strikes: 1, BlockedUntil: now}
		if d := Evaluate(st, 0, now); !d.Admitted() {
			t.Fatalf("expected admit after the ban ended, got %v", d.Verdict)
		}
	})

	t.Run("new ban is strictly in the future", func(t *testing.T) {
		for strikes := 0; strikes < 10; strikes++ {
			d := Evaluate(model.SpamState{Strikes: strikes}, BurstLimit, now)
			if !d.State.BlockedUntil.After(now) {
				t.Fatalf("strike %d: BlockedUntil %v not after now", strikes+1, d.State.BlockedUntil)
			}
		}
	})
}
