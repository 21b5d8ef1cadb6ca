package db

import (
	"time"

	"gorm.io/datatypes"
)

// Round is one game post the bot has seen, keyed by its parsed number.
type Round struct {
	ID        uint      `gorm:"primaryKey"`
	Number    int       `gorm:"not null;uniqueIndex"`
	PostID    string    `gorm:"size:32;not null"`
	Title     string    `gorm:"size:300;not null"`
	Author    string    `gorm:"size:64"`
	Status    string    `gorm:"size:32;not null"`
	PostedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Wins      []Win
	Events    []Event
}

// Win is one credited hand-off. The unique index on RoundNumber backs the
// no-double-crediting invariant at the storage layer too.
type Win struct {
	ID          uint      `gorm:"primaryKey"`
	RoundID     uint      `gorm:"index"`
	RoundNumber int       `gorm:"not null;uniqueIndex"`
	Username    string    `gorm:"size:64;not null;index"`
	CommentID   string    `gorm:"size:32"`
	CreditedAt  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// Rotation records each shared-account password rotation. The password itself
// is never stored, only why and when the rotation happened.
type Rotation struct {
	ID        uint      `gorm:"primaryKey"`
	Reason    string    `gorm:"size:64;not null"`
	RoundNum  int       `gorm:"index"`
	CreatedAt time.Time `gorm:"not null"`
}

// Event is the append-only audit log of everything the loop did.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoundID   uint           `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;index"`
}
