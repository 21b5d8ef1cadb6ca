package bot

import (
	"context"
	"log"
	"time"

	"picturegame-bot/internal/platform"
)

// Tick runs one poll cycle: fetch the latest round, classify it, act. On
// error the returned state still records any side effects that completed
// before the failure (a warned flag stays set when the escalation after it
// errors), so callers must adopt it before retrying; the remaining side
// effects are guarded to be idempotent across replays.
func (b *Bot) Tick(ctx context.Context, state TickState) (TickState, error) {
	round, err := b.client.LatestRound(ctx)
	if err != nil {
		return state, err
	}
	number, ok := platform.RoundNumber(round.Title)
	if !ok {
		// Not recognizable as a round, nothing to enforce against.
		log.Printf("latest post has no round number title=%q", round.Title)
		return state, nil
	}
	comments, err := b.client.CommentTree(ctx, round.ID)
	if err != nil {
		return state, err
	}

	cls := Classify(round, comments, b.player.Username(), b.cfg.BotUsername)
	kind := cls.Kind
	if kind == ClassSolvedHandled {
		// Already credited on an earlier tick. The flair decides which
		// timeout phase applies; a freshly handled round whose flair the
		// moderators have not touched is waiting on a repost.
		switch ParseRoundTag(round.Flair) {
		case TagAbandoned:
			kind = ClassAbandoned
		default:
			kind = ClassRoundOver
		}
	}

	switch kind {
	case ClassSolved:
		log.Printf("new winner round=%d winner=%s", number, cls.Winner.Author)
		if err := b.handOff(ctx, round, number, cls); err != nil {
			return state, err
		}
		state.CurrentOp = cls.Winner.Author
		state.NoAnswerWarned = false
		state.NoPostWarned = false

	case ClassUnsolved:
		state.NoPostWarned = false
		if b.elapsed(round.CreatedAt, b.cfg.NoAnswerWarnMinutes) && !state.NoAnswerWarned {
			log.Printf("round unsolved past %d minutes, warning round=%d",
				b.cfg.NoAnswerWarnMinutes, number)
			b.warn(ctx, state.CurrentOp, subjectNoAnswer,
				noAnswerWarning(b.cfg.NoAnswerWarnMinutes, b.cfg.NoAnswerResetMinutes))
			state.NoAnswerWarned = true
		}
		if b.elapsed(round.CreatedAt, b.cfg.NoAnswerResetMinutes) && state.NoAnswerWarned {
			log.Printf("round unsolved past %d minutes, abandoning round=%d",
				b.cfg.NoAnswerResetMinutes, number)
			if err := b.abandon(ctx, round, number); err != nil {
				return state, err
			}
			state.NoAnswerWarned = false
		}

	case ClassRoundOver:
		// Timed from the winning answer; with no winner comment to measure
		// from there is nothing to escalate yet.
		var winTime time.Time
		if cls.Winner != nil {
			winTime = cls.Winner.CreatedAt
		}
		if b.elapsed(winTime, b.cfg.NoPostWarnMinutes) && !state.NoPostWarned {
			log.Printf("no new round past %d minutes, warning round=%d",
				b.cfg.NoPostWarnMinutes, number)
			b.warn(ctx, state.CurrentOp, subjectNoPost,
				noPostWarning(b.cfg.NoPostWarnMinutes, b.cfg.NoPostResetMinutes))
			state.NoPostWarned = true
		}
		if b.elapsed(winTime, b.cfg.NoPostResetMinutes) && state.NoPostWarned {
			log.Printf("no new round past %d minutes, taking over round=%d",
				b.cfg.NoPostResetMinutes, number)
			if err := b.CreateChallenge(ctx, number); err != nil {
				return state, err
			}
			state.NoPostWarned = false
			state.CurrentOp = ""
		}

	case ClassAbandoned:
		log.Printf("abandoned round detected, taking over round=%d", number)
		if err := b.CreateChallenge(ctx, number); err != nil {
			return state, err
		}
		state.NoAnswerWarned = false
		state.NoPostWarned = false
		state.CurrentOp = ""
	}

	b.publishSnapshot(round, number, cls, state)
	return state, nil
}

// warn messages the shared account and, when known, the person holding it.
// The holder is tracked opportunistically; not knowing them never blocks the
// warning.
func (b *Bot) warn(ctx context.Context, currentOp, subject, body string) {
	if currentOp != "" {
		if err := b.client.SendMessage(ctx, currentOp, subject, body); err != nil {
			log.Printf("warn message to op failed op=%s error=%v", currentOp, err)
		}
	}
	if err := b.client.SendMessage(ctx, b.player.Username(), subject, body); err != nil {
		log.Printf("warn message to account failed error=%v", err)
	}
}

func (b *Bot) abandon(ctx context.Context, round *platform.Round, number int) error {
	if err := b.client.SetPostFlair(ctx, round.ID, flairAbandoned, cssAbandoned); err != nil {
		return err
	}
	notice, err := b.client.Reply(ctx, round.ID, abandonedNotice(b.cfg.NoAnswerResetMinutes))
	if err != nil {
		return err
	}
	if err := b.client.Distinguish(ctx, notice.ID); err != nil {
		log.Printf("distinguish abandon notice failed round=%d error=%v", number, err)
	}
	b.archiveRoundStatus(round, number, "abandoned")
	b.archiveEvent(number, "round_abandoned", eventPayload{RoundNumber: number})
	return nil
}
