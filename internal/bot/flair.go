package bot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	winsPattern       = regexp.MustCompile(`(\d+) wins`)
	flairRoundNumbers = regexp.MustCompile(`\d+`)
)

// NextWinnerFlair computes the winner's updated user flair. An empty flair
// starts a round list, a "N wins" flair is incremented, a round list of
// seven or more collapses into the wins format. Custom flairs that follow
// neither convention are left for the moderators, reported by ok=false.
func NextWinnerFlair(current string, round int) (string, bool) {
	current = strings.TrimSpace(current)
	if current == "" {
		return fmt.Sprintf("Round %d", round), true
	}
	if match := winsPattern.FindStringSubmatch(current); match != nil {
		wins, err := strconv.Atoi(match[1])
		if err != nil {
			return "", false
		}
		return winsPattern.ReplaceAllString(current, fmt.Sprintf("%d wins", wins+1)), true
	}
	if strings.HasPrefix(current, "Round") {
		rounds := flairRoundNumbers.FindAllString(current, -1)
		if len(rounds) >= 7 {
			return fmt.Sprintf("%d wins", len(rounds)+1), true
		}
		return fmt.Sprintf("%s, %d", current, round), true
	}
	return "", false
}
