package bot

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"picturegame-bot/internal/platform"
)

// Challenge is one bot-run round definition: the answer to look for, the
// street-view location query, and the hints released while it is unsolved.
type Challenge struct {
	Answer   string
	Location string
	Hints    []string
}

// LoadChallenges reads `answer|location|hint|hint|...` lines. Blank lines
// and lines starting with # are skipped.
func LoadChallenges(path string) ([]Challenge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var challenges []Challenge
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed challenge line: %q", line)
		}
		challenge := Challenge{
			Answer:   strings.TrimSpace(fields[0]),
			Location: strings.TrimSpace(fields[1]),
		}
		for _, hint := range fields[2:] {
			if hint = strings.TrimSpace(hint); hint != "" {
				challenge.Hints = append(challenge.Hints, hint)
			}
		}
		if challenge.Answer == "" || challenge.Location == "" {
			return nil, fmt.Errorf("malformed challenge line: %q", line)
		}
		challenges = append(challenges, challenge)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, fmt.Errorf("no challenges in %s", path)
	}
	return challenges, nil
}

// CreateChallenge takes the game over: the password rotates first so the
// outgoing holder is locked out immediately, then a random challenge is
// published as the next round and a watcher starts on it.
func (b *Bot) CreateChallenge(ctx context.Context, lastNumber int) error {
	number := lastNumber + 1

	if _, err := b.rotatePassword(ctx, "takeover", number); err != nil {
		return err
	}

	challenges, err := LoadChallenges(b.cfg.ChallengesPath)
	if err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}
	challenge := challenges[randomIndex(len(challenges))]

	path, err := b.fetcher.Fetch(ctx, challenge.Location)
	if err != nil {
		return fmt.Errorf("fetch challenge image: %w", err)
	}
	imageURL, err := b.images.Upload(ctx, path, "PictureGame Challenge")
	if err != nil {
		return fmt.Errorf("upload challenge image: %w", err)
	}

	post, err := b.player.SubmitPost(ctx, challengeTitle(number), imageURL)
	if err != nil {
		return fmt.Errorf("submit challenge round: %w", err)
	}
	log.Printf("challenge round submitted round=%d post=%s", number, post.ID)

	b.archiveRoundStatus(post, number, "unsolved")
	b.archiveEvent(number, "challenge_created", eventPayload{
		RoundNumber: number,
		PostID:      post.ID,
	})

	b.startWatcher(post, number, challenge)
	return nil
}

// startWatcher runs the challenge watcher for a round, cancelling any
// watcher still running for a superseded round.
func (b *Bot) startWatcher(round *platform.Round, number int, challenge Challenge) {
	b.watchMu.Lock()
	for stale, cancel := range b.watchers {
		if stale != number {
			log.Printf("cancelling superseded watcher round=%d", stale)
			cancel()
			delete(b.watchers, stale)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.watchers[number] = cancel
	b.watchMu.Unlock()

	go func() {
		defer b.stopWatcher(number)
		b.runChallenge(ctx, round, number, challenge)
	}()
}

func (b *Bot) stopWatcher(number int) {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	if cancel, ok := b.watchers[number]; ok {
		cancel()
		delete(b.watchers, number)
	}
}

// StopWatchers cancels all running challenge watchers, used on shutdown.
func (b *Bot) StopWatchers() {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	for number, cancel := range b.watchers {
		cancel()
		delete(b.watchers, number)
	}
}
