package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"picturegame-bot/internal/platform"
)

// Leaderboard maps usernames to the ordered round numbers they won. It is
// hydrated lazily from the wiki table on first access and cached for the
// process lifetime; this assumes the bot is the table's only writer.
type Leaderboard struct {
	client platform.Client
	page   string

	mu     sync.Mutex
	loaded bool
	data   map[string][]int
	order  []string
}

// Entry is one leaderboard row for read-only consumers.
type Entry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Rounds   []int  `json:"rounds"`
	Total    int    `json:"total"`
}

func NewLeaderboard(client platform.Client, page string) *Leaderboard {
	return &Leaderboard{
		client: client,
		page:   page,
		data:   make(map[string][]int),
	}
}

func (l *Leaderboard) load(ctx context.Context) error {
	if l.loaded {
		return nil
	}
	content, err := l.client.ReadWikiPage(ctx, l.page)
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	data, order := parseLeaderboard(content)
	l.data = data
	l.order = order
	l.loaded = true
	return nil
}

// Add credits a round to a user. A round number may appear under at most one
// user across the whole table, so crediting an already-credited round fails.
func (l *Leaderboard) Add(ctx context.Context, username string, round int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return err
	}
	for user, rounds := range l.data {
		for _, existing := range rounds {
			if existing == round {
				return fmt.Errorf("round %d already credited to %s", round, user)
			}
		}
	}
	if _, ok := l.data[username]; !ok {
		l.order = append(l.order, username)
	}
	l.data[username] = append(l.data[username], round)
	return nil
}

// Remove discredits a round from a user, for correcting erroneous credits.
// A user left with no rounds drops off the table entirely.
func (l *Leaderboard) Remove(ctx context.Context, username string, round int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return err
	}
	rounds, ok := l.data[username]
	if !ok {
		return fmt.Errorf("%s is not on the leaderboard", username)
	}
	kept := rounds[:0]
	found := false
	for _, existing := range rounds {
		if existing == round && !found {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return fmt.Errorf("round %d is not credited to %s", round, username)
	}
	if len(kept) == 0 {
		delete(l.data, username)
		for i, user := range l.order {
			if user == username {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
		return nil
	}
	l.data[username] = kept
	return nil
}

// Markdown renders the ranked table. Users are grouped by total wins in
// descending order; ties share a rank and keep their first-win order.
func (l *Leaderboard) Markdown(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return "", err
	}
	return renderLeaderboard(l.data, l.order), nil
}

// Publish writes the rendered table back to the wiki page.
func (l *Leaderboard) Publish(ctx context.Context, reason string) error {
	content, err := l.Markdown(ctx)
	if err != nil {
		return err
	}
	return l.client.EditWikiPage(ctx, l.page, content, reason)
}

// Entries returns the ranked rows for the dashboard.
func (l *Leaderboard) Entries(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return rankedEntries(l.data, l.order), nil
}

func rankedEntries(data map[string][]int, order []string) []Entry {
	totals := make(map[int][]string)
	for _, user := range order {
		wins := len(data[user])
		totals[wins] = append(totals[wins], user)
	}
	counts := make([]int, 0, len(totals))
	for wins := range totals {
		counts = append(counts, wins)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	var entries []Entry
	for rank, wins := range counts {
		for _, user := range totals[wins] {
			entries = append(entries, Entry{
				Rank:     rank + 1,
				Username: user,
				Rounds:   append([]int(nil), data[user]...),
				Total:    wins,
			})
		}
	}
	return entries
}

func renderLeaderboard(data map[string][]int, order []string) string {
	var b strings.Builder
	b.WriteString("# Leaderboard\n\n")
	b.WriteString("Rank | Username | Rounds won | Total\n")
	b.WriteString(":--:|:--:|:--|:--:\n")
	for _, entry := range rankedEntries(data, order) {
		rounds := make([]string, len(entry.Rounds))
		for i, round := range entry.Rounds {
			rounds[i] = strconv.Itoa(round)
		}
		fmt.Fprintf(&b, "%d | %s | %s | %d\n",
			entry.Rank, entry.Username, strings.Join(rounds, ", "), entry.Total)
	}
	return b.String()
}

// parseLeaderboard reads the wiki table back into the cache. Table order is
// the persisted order, so reloading keeps chronological round lists intact.
func parseLeaderboard(content string) (map[string][]int, []string) {
	data := make(map[string][]int)
	var order []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Trim(line, "|")
		if strings.Contains(line, ":--") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 4 {
			continue
		}
		username := strings.TrimSpace(fields[1])
		if username == "" || strings.EqualFold(username, "username") {
			continue
		}
		var rounds []int
		for _, raw := range strings.Split(fields[2], ",") {
			round, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || round <= 0 {
				continue
			}
			rounds = append(rounds, round)
		}
		if _, ok := data[username]; !ok {
			order = append(order, username)
		}
		data[username] = append(data[username], rounds...)
	}
	return data, order
}
