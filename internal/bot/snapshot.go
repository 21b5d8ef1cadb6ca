package bot

import (
	"time"

	"picturegame-bot/internal/platform"
)

// Snapshot is the dashboard's view of the last completed tick.
type Snapshot struct {
	RoundNumber    int       `json:"round_number"`
	Title          string    `json:"title"`
	Flair          string    `json:"flair"`
	State          string    `json:"state"`
	Winner         string    `json:"winner,omitempty"`
	CurrentOp      string    `json:"current_op,omitempty"`
	NoAnswerWarned bool      `json:"no_answer_warned"`
	NoPostWarned   bool      `json:"no_post_warned"`
	PostedAt       time.Time `json:"posted_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (b *Bot) publishSnapshot(round *platform.Round, number int, cls Classification, state TickState) {
	snapshot := Snapshot{
		RoundNumber:    number,
		Title:          round.Title,
		Flair:          round.Flair,
		State:          cls.Kind.String(),
		CurrentOp:      state.CurrentOp,
		NoAnswerWarned: state.NoAnswerWarned,
		NoPostWarned:   state.NoPostWarned,
		PostedAt:       round.CreatedAt,
		UpdatedAt:      b.now(),
	}
	if cls.Winner != nil {
		snapshot.Winner = cls.Winner.Author
	}
	b.mu.Lock()
	b.snapshot = snapshot
	b.mu.Unlock()
	b.hub.Broadcast(snapshot)
}

// LastSnapshot returns the most recent tick snapshot.
func (b *Bot) LastSnapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}
