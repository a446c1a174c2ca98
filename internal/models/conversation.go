package models

import (
	"time"
)

// ConversationMessage is one chat line scoped to a meal listing. The set is
// append-only while the listing is live and deleted wholesale when the listing
// is cancelled or archived. There is no read state and no pagination; clients
// replay the full ordered history.
type ConversationMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MealID     uint      `gorm:"not null;index" json:"meal_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	ReceiverID uint      `gorm:"not null" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps the table name the HTTP clients and original schema expect.
func (ConversationMessage) TableName() string {
	return "meal_conversation"
}
