package bot

import (
	"context"
	"fmt"
	"log"

	"picturegame-bot/internal/platform"
)

// handOff credits the winner and passes the shared account on. The reply is
// posted first: its presence is the authoritative guard against crediting
// the same answer twice, flair alone cannot be trusted since moderators can
// alter it.
func (b *Bot) handOff(ctx context.Context, round *platform.Round, number int, cls Classification) error {
	winner := cls.Winner

	reply, err := b.client.Reply(ctx, winner.ID, congratsBody)
	if err != nil {
		return fmt.Errorf("congratulate winner: %w", err)
	}
	if err := b.client.Distinguish(ctx, reply.ID); err != nil {
		log.Printf("distinguish congratulation failed round=%d error=%v", number, err)
	}

	password, err := b.rotatePassword(ctx, "hand-off", number)
	if err != nil {
		return err
	}

	b.incrementWinnerFlair(ctx, winner.Author, number)

	if err := b.client.SetPostFlair(ctx, round.ID, flairRoundOver, cssRoundOver); err != nil {
		return fmt.Errorf("set round-over flair: %w", err)
	}

	if err := b.leaderboard.Add(ctx, winner.Author, number); err != nil {
		log.Printf("leaderboard add failed round=%d winner=%s error=%v",
			number, winner.Author, err)
	} else if err := b.leaderboard.Publish(ctx,
		fmt.Sprintf("%s won Round %d.", winner.Author, number)); err != nil {
		log.Printf("leaderboard publish failed round=%d error=%v", number, err)
	}

	if err := b.client.SendMessage(ctx, winner.Author, subjectHandOff,
		handOffBody(number+1, b.player.Username(), password)); err != nil {
		return fmt.Errorf("message winner: %w", err)
	}

	b.archiveRoundStatus(round, number, "round-over")
	b.archiveWin(number, winner)
	b.archiveEvent(number, "hand_off", eventPayload{
		RoundNumber: number,
		Winner:      winner.Author,
		CommentID:   winner.ID,
	})
	return nil
}

// rotatePassword generates a fresh password, applies it to the shared
// account, and records it on the accounts wiki page. The new password is
// logged as a recovery path of last resort.
func (b *Bot) rotatePassword(ctx context.Context, reason string, number int) (string, error) {
	password := GeneratePassword(b.cfg.WordlistPath)
	log.Printf("NEW PASSWORD: %s", password)

	if err := b.player.UpdatePassword(ctx, b.CurrentPassword(), password); err != nil {
		return "", fmt.Errorf("rotate password: %w", err)
	}
	b.setPassword(password)

	content, err := b.client.ReadWikiPage(ctx, b.cfg.AccountsPage)
	if err != nil {
		return "", fmt.Errorf("read accounts page: %w", err)
	}
	updated := ReplaceCredential(content, Credential{
		Username: b.player.Username(),
		Password: password,
	})
	if err := b.client.EditWikiPage(ctx, b.cfg.AccountsPage, updated, "Password Update"); err != nil {
		return "", fmt.Errorf("write accounts page: %w", err)
	}

	b.archiveRotation(reason, number)
	return password, nil
}

func (b *Bot) incrementWinnerFlair(ctx context.Context, username string, number int) {
	current, err := b.client.UserFlair(ctx, username)
	if err != nil {
		log.Printf("read winner flair failed user=%s error=%v", username, err)
		return
	}
	next, ok := NextWinnerFlair(current, number)
	if !ok {
		// Custom flair, left to the moderators.
		return
	}
	if err := b.client.SetUserFlair(ctx, username, next, cssWinner); err != nil {
		log.Printf("set winner flair failed user=%s error=%v", username, err)
	}
}
