package bot

import (
	"context"
	"log"
	"strings"
	"time"

	"picturegame-bot/internal/platform"
)

// runChallenge polls a bot-created round for the answer and drip-feeds hints.
// It runs out of band from the main loop: its failures are logged and
// retried on the next watch tick, never surfaced to the poller.
func (b *Bot) runChallenge(ctx context.Context, round *platform.Round, number int, challenge Challenge) {
	interval := time.Duration(b.cfg.WatchIntervalSeconds) * time.Second
	posted := make([]bool, len(challenge.Hints))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("challenge watcher started round=%d answer_len=%d hints=%d",
		number, len(challenge.Answer), len(challenge.Hints))
	for {
		select {
		case <-ctx.Done():
			log.Printf("challenge watcher stopped round=%d", number)
			return
		case <-ticker.C:
		}

		comments, err := b.client.CommentTree(ctx, round.ID)
		if err != nil {
			log.Printf("challenge watcher poll failed round=%d error=%v", number, err)
			continue
		}
		if match := findAnswer(comments, challenge.Answer, b.player.Username()); match != nil {
			if _, err := b.player.Reply(ctx, match.ID, AcceptMarker); err != nil {
				log.Printf("challenge accept reply failed round=%d error=%v", number, err)
				continue
			}
			log.Printf("challenge solved round=%d winner=%s", number, match.Author)
			return
		}

		for i, offset := range b.cfg.HintOffsetsMinutes {
			if i >= len(challenge.Hints) || posted[i] {
				continue
			}
			if !minutesPassed(round.CreatedAt, offset, b.now()) {
				continue
			}
			if _, err := b.player.Comment(ctx, round.ID, challenge.Hints[i]); err != nil {
				log.Printf("challenge hint failed round=%d hint=%d error=%v", number, i, err)
				continue
			}
			posted[i] = true
			log.Printf("challenge hint posted round=%d hint=%d", number, i)
		}
	}
}

// findAnswer returns the first comment containing the answer, ignoring case
// and anything the shared account posted itself.
func findAnswer(comments []platform.Comment, answer, playerUser string) *platform.Comment {
	needle := strings.ToLower(answer)
	for i := range comments {
		comment := &comments[i]
		if comment.Author == "" || strings.EqualFold(comment.Author, playerUser) {
			continue
		}
		if strings.Contains(strings.ToLower(comment.Body), needle) {
			return comment
		}
	}
	return nil
}
