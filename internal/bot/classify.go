package bot

import (
	"strings"

	"picturegame-bot/internal/platform"
)

type ClassKind int

const (
	ClassUnsolved ClassKind = iota
	ClassSolved
	ClassSolvedHandled
	ClassRoundOver
	ClassAbandoned
)

func (k ClassKind) String() string {
	switch k {
	case ClassUnsolved:
		return "unsolved"
	case ClassSolved:
		return "solved"
	case ClassSolvedHandled:
		return "solved-handled"
	case ClassRoundOver:
		return "round-over"
	case ClassAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Classification is the per-tick verdict on the current round. Winner is the
// comment that gave the correct answer (the parent of the shared account's
// accept reply); Accept is the accept reply itself. Both are nil unless a
// winner was found.
type Classification struct {
	Kind   ClassKind
	Winner *platform.Comment
	Accept *platform.Comment
}

// Classify inspects a round's comment tree and flair. A qualifying winning
// answer always classifies the round as solved regardless of flair text,
// because moderators can and do alter flairs; the flair only drives the
// verdict when no fresh winner exists.
func Classify(round *platform.Round, comments []platform.Comment, playerUser, botUser string) Classification {
	winner, accept := findWinner(comments, playerUser)
	if winner != nil {
		if hasReplyBy(comments, winner.ID, botUser) {
			return Classification{Kind: ClassSolvedHandled, Winner: winner, Accept: accept}
		}
		return Classification{Kind: ClassSolved, Winner: winner, Accept: accept}
	}
	switch ParseRoundTag(round.Flair) {
	case TagRoundOver:
		return Classification{Kind: ClassRoundOver}
	case TagAbandoned:
		return Classification{Kind: ClassAbandoned}
	default:
		// Unknown tags fall through to unsolved, the timeout policy still
		// applies to them.
		return Classification{Kind: ClassUnsolved}
	}
}

// findWinner returns the first comment in tree order that the shared account
// accepted: the accept reply must contain the marker, must not be top-level
// (the account has to be replying to an answer, not posting one), and its
// parent must be authored by someone other than the shared account.
func findWinner(comments []platform.Comment, playerUser string) (winner, accept *platform.Comment) {
	byID := make(map[string]int, len(comments))
	for i, comment := range comments {
		byID[comment.ID] = i
	}
	for i := range comments {
		comment := &comments[i]
		if !strings.EqualFold(comment.Author, playerUser) {
			continue
		}
		if !strings.Contains(comment.Body, AcceptMarker) {
			continue
		}
		if comment.IsRoot() {
			continue
		}
		parentIdx, ok := byID[comment.ParentID]
		if !ok {
			continue
		}
		parent := &comments[parentIdx]
		if parent.Author == "" || parent.Author == "[deleted]" {
			continue
		}
		if strings.EqualFold(parent.Author, playerUser) {
			continue
		}
		return parent, comment
	}
	return nil, nil
}

// hasReplyBy reports whether any direct reply to the given comment was
// authored by the given user. This backs the hand-off idempotency guard.
func hasReplyBy(comments []platform.Comment, commentID, user string) bool {
	for i := range comments {
		if comments[i].ParentID == commentID && strings.EqualFold(comments[i].Author, user) {
			return true
		}
	}
	return false
}
