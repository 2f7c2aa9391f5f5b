package model

import "time"

// User is the account a device belongs to. Accounts are managed by the host
// system; this service only reads them.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name      string    `json:"name" gorm:"size:100;default:''"`
	CreatedAt time.Time `json:"created_at"`
}
