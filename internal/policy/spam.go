// Package policy decides whether a community post is admitted, and escalates
// bans for users who post in bursts.
package policy

import (
	"fmt"
	"math"
	"time"

	"soulsync/internal/domain/model"
)

const (
	// BurstWindow is the trailing window in which posts are counted.
	BurstWindow = 10 * time.Second
	// BurstLimit is the number of posts inside BurstWindow, this attempt
	// included, that trips the spam rule.
	BurstLimit = 5
)

// ladder is the ban duration per strike; the last tier repeats forever.
var ladder = []time.Duration{
	5 * time.Minute,
	30 * time.Minute,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
	365 * 24 * time.Hour,
}

// DurationForStrike returns the ban length for the n-th strike (1-based).
func DurationForStrike(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > len(ladder) {
		n = len(ladder)
	}
	return ladder[n-1]
}

type Verdict int

const (
	VerdictAdmit Verdict = iota
	VerdictBlocked
	VerdictBurst
)

func (v Verdict) String() string {
	switch v {
	case VerdictAdmit:
		return "admit"
	case VerdictBlocked:
		return "blocked"
	case VerdictBurst:
		return "burst"
	}
	return "unknown"
}

// Decision is the outcome of Evaluate. State is the ban state to persist;
// it differs from the input only for VerdictBurst.
type Decision struct {
	Verdict Verdict
	State   model.SpamState
	// Remaining is the time left on the ban for Blocked and Burst verdicts.
	Remaining time.Duration
}

// Evaluate applies the posting policy. recentPosts is the number of posts
// the user made in the trailing BurstWindow, not counting this attempt.
func Evaluate(state model.SpamState, recentPosts int, now time.Time) Decision {
	if state.IsBlocked(now) {
		return Decision{Verdict: VerdictBlocked, State: state, Remaining: state.BlockedUntil.Sub(now)}
	}
	if recentPosts+1 >= BurstLimit {
		strikes := state.Strikes + 1
		d := DurationForStrike(strikes)
		return Decision{
			Verdict:   VerdictBurst,
			State:     model.SpamState{Strikes: strikes, BlockedUntil: now.Add(d)},
			Remaining: d,
		}
	}
	return Decision{Verdict: VerdictAdmit, State: state}
}

// Admitted reports whether the post may be stored.
func (d Decision) Admitted() bool { return d.Verdict == VerdictAdmit }

// Message is the user-facing explanation of a rejection; empty when admitted.
func (d Decision) Message() string {
	switch d.Verdict {
	case VerdictBlocked:
		return fmt.Sprintf("You are blocked for another %d minutes.", int64(math.Ceil(d.Remaining.Minutes())))
	case VerdictBurst:
		return fmt.Sprintf("Spam detected. You are blocked for %d minutes.", minutes(d.Remaining))
	}
	return ""
}

// minutes rounds a fresh ban; ladder steps are whole minutes anyway.
func minutes(d time.Duration) int64 {
	return int64(math.Round(d.Minutes()))
}
