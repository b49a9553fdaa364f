package models

// CommentModel is a comment left on a pin. Comments are immutable once
// created; they can only be deleted by their author or an admin.
type CommentModel struct {
	Base
	Username string `json:"username" gorm:"index;not null"`
	PinID    string `json:"pin_id"   gorm:"index;not null"`
	Text     string `json:"text"     gorm:"type:text;not null"`
}

func (CommentModel) TableName() string { return "comments" }
