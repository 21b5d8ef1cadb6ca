package platform

import (
	"regexp"
	"strconv"
	"time"
)

// Round is one game post as seen on the platform.
type Round struct {
	ID        string
	Title     string
	Author    string
	Flair     string
	URL       string
	Permalink string
	CreatedAt time.Time
}

// Comment is one node of a round's comment tree, flattened in tree-traversal
// order. ParentID is empty for top-level comments.
type Comment struct {
	ID        string
	PostID    string
	ParentID  string
	Author    string
	Body      string
	CreatedAt time.Time
}

// IsRoot reports whether the comment sits directly under the post.
func (c Comment) IsRoot() bool {
	return c.ParentID == ""
}

var roundTitlePattern = regexp.MustCompile(`(?i)^\[round (\d+)`)

// RoundNumber parses the round number out of a post title. It returns 0 and
// false for titles that do not follow the "[Round N]" convention.
func RoundNumber(title string) (int, bool) {
	match := roundTitlePattern.FindStringSubmatch(title)
	if match == nil {
		return 0, false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

// IsRoundTitle reports whether a post title marks a game round.
func IsRoundTitle(title string) bool {
	_, ok := RoundNumber(title)
	return ok
}

// SelectLatestRound picks the current round from a newest-first post listing.
// Posts without a parseable round number are skipped. When several round
// posts exist the highest parsed round number wins, falling back to creation
// time for equal numbers, so a pair of posts submitted in quick succession
// resolves deterministically.
func SelectLatestRound(posts []Round) (Round, bool) {
	var best Round
	bestNumber := 0
	found := false
	for _, post := range posts {
		number, ok := RoundNumber(post.Title)
		if !ok {
			continue
		}
		if !found || number > bestNumber ||
			(number == bestNumber && post.CreatedAt.After(best.CreatedAt)) {
			best = post
			bestNumber = number
			found = true
		}
	}
	return best, found
}
