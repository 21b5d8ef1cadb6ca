package bot

import (
	"strings"
	"time"
)

// AcceptMarker is the literal token the shared account replies with to mark
// a comment as the correct answer.
const AcceptMarker = "+correct"

const (
	flairRoundOver = "ROUND OVER"
	flairAbandoned = "ABANDONED"

	cssRoundOver = "over"
	cssAbandoned = "abandoned"
	cssWinner    = "winner"
)

// RoundTag is the closed set of lifecycle tags a round's flair can carry.
// Flair is free text set by moderators, so it is parsed once at the boundary
// instead of re-matched at every decision point.
type RoundTag int

const (
	TagUnsolved RoundTag = iota
	TagRoundOver
	TagAbandoned
	TagUnknown
)

func (t RoundTag) String() string {
	switch t {
	case TagUnsolved:
		return "unsolved"
	case TagRoundOver:
		return "round-over"
	case TagAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// ParseRoundTag maps raw flair text to a lifecycle tag. Matching is
// case-insensitive substring, not equality: moderators decorate flairs.
func ParseRoundTag(flair string) RoundTag {
	text := strings.ToUpper(strings.TrimSpace(flair))
	switch {
	case text == "" || strings.Contains(text, "UNSOLVED"):
		return TagUnsolved
	case strings.Contains(text, "ROUND OVER"):
		return TagRoundOver
	case strings.Contains(text, "DEAD ROUND") || strings.Contains(text, "ABANDONED"):
		return TagAbandoned
	default:
		return TagUnknown
	}
}

// TickState is the loop state threaded through each poll tick. It is passed
// by value and the updated copy returned, so a single tick can be tested in
// isolation.
type TickState struct {
	NoAnswerWarned bool
	NoPostWarned   bool
	CurrentOp      string
}

// minutesPassed reports whether the given number of minutes has elapsed
// since createdAt. A zero createdAt means there is no event to measure from
// yet, which never counts as elapsed.
func minutesPassed(createdAt time.Time, minutes int, now time.Time) bool {
	if createdAt.IsZero() || minutes < 0 {
		return false
	}
	return !now.Before(createdAt.Add(time.Duration(minutes) * time.Minute))
}
