package bot

import (
	"encoding/json"
	"errors"
	"log"

	"picturegame-bot/internal/db"
	"picturegame-bot/internal/platform"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// eventPayload is the audit log's JSON envelope.
type eventPayload struct {
	RoundNumber int    `json:"round_number,omitempty"`
	PostID      string `json:"post_id,omitempty"`
	Winner      string `json:"winner,omitempty"`
	CommentID   string `json:"comment_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// The archive is best-effort: a nil connection disables it and write
// failures are logged, never allowed to stall the game.

func (b *Bot) archiveRoundStatus(round *platform.Round, number int, status string) {
	if b.db == nil {
		return
	}
	record := db.Round{
		Number:   number,
		PostID:   round.ID,
		Title:    round.Title,
		Author:   round.Author,
		Status:   status,
		PostedAt: round.CreatedAt,
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		log.Printf("archive round failed round=%d error=%v", number, err)
	}
}

func (b *Bot) archiveWin(number int, winner *platform.Comment) {
	if b.db == nil {
		return
	}
	record := db.Win{
		RoundNumber: number,
		Username:    winner.Author,
		CommentID:   winner.ID,
		CreditedAt:  b.now(),
	}
	if err := b.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			// Replayed tick, the win is already on file.
			return
		}
		log.Printf("archive win failed round=%d error=%v", number, err)
	}
}

func (b *Bot) archiveRotation(reason string, number int) {
	if b.db == nil {
		return
	}
	record := db.Rotation{Reason: reason, RoundNum: number}
	if err := b.db.Create(&record).Error; err != nil {
		log.Printf("archive rotation failed reason=%s error=%v", reason, err)
	}
}

func (b *Bot) archiveEvent(number int, eventType string, payload eventPayload) {
	if b.db == nil {
		return
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Printf("encode event payload failed type=%s error=%v", eventType, err)
		return
	}
	record := db.Event{
		Type:    eventType,
		Payload: datatypes.JSON(encoded),
	}
	if err := b.db.Create(&record).Error; err != nil {
		log.Printf("archive event failed type=%s round=%d error=%v", eventType, number, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
