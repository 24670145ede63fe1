package models

import "time"

// Category represents income/expense category.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_category_owner_name_type,priority:1;not null" json:"user_id"`
	Name      string    `gorm:"size:64;uniqueIndex:idx_category_owner_name_type,priority:2;not null" json:"name"`
	Type      string    `gorm:"size:16;uniqueIndex:idx_category_owner_name_type,priority:3;not null" json:"type"` // income / expense
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
