package models

// LikeModel records one user's like on one image of a pin.
type LikeModel struct {
	Base
	Username   string `json:"username"    gorm:"uniqueIndex:idx_like_identity;not null"`
	PinID      string `json:"pin_id"      gorm:"uniqueIndex:idx_like_identity;index;not null"`
	ImageIndex int    `json:"image_index" gorm:"uniqueIndex:idx_like_identity;default:0"`
}

func (LikeModel) TableName() string { return "likes" }
