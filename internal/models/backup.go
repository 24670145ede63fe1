package models

import "time"

// Backup records an encrypted ledger snapshot written to disk.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:128;not null"`
	FilePath  string `gorm:"size:512;not null"`
	Size      int64
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
