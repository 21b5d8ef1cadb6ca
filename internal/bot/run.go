package bot

import (
	"context"
	"errors"
	"log"
	"time"

	"picturegame-bot/internal/platform"
)

// Run drives the poll loop until the context is cancelled or an
// unanticipated error escapes. Transient platform failures cool the loop
// down, a rejected shared-account login re-reads the credentials from the
// wiki; everything else is fatal on purpose, the process is meant to be
// restarted by an operator.
func (b *Bot) Run(ctx context.Context) error {
	defer b.StopWatchers()

	state := TickState{}
	interval := time.Duration(b.cfg.PollIntervalSeconds) * time.Second
	cooldown := time.Duration(b.cfg.CooldownSeconds) * time.Second

	for {
		// The returned state is adopted even when the tick failed partway:
		// it reflects side effects that already happened (a warning sent
		// before the escalation errored), and replaying those would spam.
		next, err := b.Tick(ctx, state)
		state = next
		switch {
		case err == nil:

		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil

		case errors.Is(err, platform.ErrInvalidCredentials):
			log.Printf("shared account login rejected, re-reading credentials")
			if err := b.reloadCredentials(ctx); err != nil {
				log.Printf("credential reload failed error=%v", err)
			}
			if !sleepCtx(ctx, 10*time.Second) {
				return nil
			}
			continue

		case platform.IsTransient(err):
			wait := cooldown
			var rate *platform.RateLimitError
			if errors.As(err, &rate) {
				wait = rate.RetryAfter
			}
			log.Printf("platform unavailable, cooling down wait=%s error=%v", wait, err)
			if !sleepCtx(ctx, wait) {
				return nil
			}
			continue

		default:
			return err
		}

		if !sleepCtx(ctx, interval) {
			return nil
		}
	}
}

// reloadCredentials recovers the shared-account password from the accounts
// wiki page and logs the player session back in.
func (b *Bot) reloadCredentials(ctx context.Context) error {
	content, err := b.client.ReadWikiPage(ctx, b.cfg.AccountsPage)
	if err != nil {
		return err
	}
	cred, err := ParseCredential(content)
	if err != nil {
		return err
	}
	if err := b.player.Login(ctx, cred.Password); err != nil {
		return err
	}
	b.setPassword(cred.Password)
	return nil
}

// sleepCtx waits for the duration, returning false if the context ended
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
