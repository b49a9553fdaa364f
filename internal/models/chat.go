package models

// ChatMessageModel is a chat line scoped to a single pin. Messages are
// append-only; nothing in the system mutates them after creation.
type ChatMessageModel struct {
	Base
	PinID    string `json:"pin_id"   gorm:"index;not null"`
	Username string `json:"username" gorm:"index;not null"`
	Message  string `json:"message"  gorm:"type:text;not null"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }
