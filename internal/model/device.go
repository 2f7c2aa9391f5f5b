package model

import "time"

// Device is a registered push endpoint owned by a user. Its ID is the
// identity the token row and the subscription term hang off.
type Device struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	Title     string       `json:"title" gorm:"size:255;default:''"`
	Taxonomy  string       `json:"taxonomy" gorm:"size:100;not null;index"`
	Token     *DeviceToken `json:"token,omitempty" gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `json:"created_at"`
}

// DeviceToken holds the push channel data of a Device.
// DeviceToken.Token is unique across all rows.
type DeviceToken struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeviceID   uint      `json:"device_id" gorm:"not null;uniqueIndex"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Token      string    `json:"device_token" gorm:"column:device_token;size:512;not null;uniqueIndex"`
	DeviceName string    `json:"device_name" gorm:"size:255;default:''"`
	OSVersion  string    `json:"os_version" gorm:"column:os_version;size:100;default:''"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubscriptionTerm is one allowed value of the subscribe taxonomy
type SubscriptionTerm struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Slug string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
	Name string `json:"name" gorm:"size:255;default:''"`
}

// PushToken returns the device token string, or "" when not loaded
func (d Device) PushToken() string {
	if d.Token == nil {
		return ""
	}
	return d.Token.Token
}
