package model

import "time"

// RefreshToken is a persisted session record. One row per issued refresh
// token; rotation deletes the consumed row in the same statement that
// claims it, so a token can never produce two successor pairs.
type RefreshToken struct {
	ID        uint      `gorm:"primarykey"`
	Token     string    `gorm:"column:token;unique;not null"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	User      User      `gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// Expired reports whether the record's expiry has passed at now. Expiry is
// evaluated lazily on every use; the background sweep is cleanup only.
func (rt *RefreshToken) Expired(now time.Time) bool {
	return rt.ExpiresAt.Before(now)
}
