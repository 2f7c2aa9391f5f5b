package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a push message recorded for a user after it was sent
type Notification struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	Image       string    `json:"image,omitempty" gorm:"size:500;default:''"`
	DialogTitle string    `json:"dialog_title,omitempty" gorm:"size:255;default:''"`
	DialogText  string    `json:"dialog_text,omitempty" gorm:"type:text;default:''"`
	DialogImage string    `json:"dialog_image,omitempty" gorm:"size:500;default:''"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// PushMessage is the payload handed to the sender
type PushMessage struct {
	Message     string
	Title       string
	Image       string
	DialogTitle string
	DialogText  string
	DialogImage string
}

// ToNotification builds the record stored for userID
func (m PushMessage) ToNotification(userID uint) *Notification {
	return &Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       m.Title,
		Message:     m.Message,
		Image:       m.Image,
		DialogTitle: m.DialogTitle,
		DialogText:  m.DialogText,
		DialogImage: m.DialogImage,
	}
}
