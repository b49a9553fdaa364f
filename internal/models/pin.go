package models

// PinModel is a user-submitted map marker with photos and a description.
// Pins are created once and never edited; only the embedded counters move.
type PinModel struct {
	Base
	Username     string      `json:"username"      gorm:"index;not null"`
	Latitude     float64     `json:"latitude"      gorm:"not null"`
	Longitude    float64     `json:"longitude"     gorm:"not null"`
	Description  string      `json:"description"   gorm:"type:text"`
	Images       StringSlice `json:"images"        gorm:"type:longtext;serializer:json"`
	StoragePaths StringSlice `json:"storage_paths" gorm:"type:longtext;serializer:json"`
	LikeCount    int         `json:"like_count"    gorm:"default:0"`
	CommentCount int         `json:"comment_count" gorm:"default:0"`
	Country      string      `json:"country"       gorm:"index"`
	Region       string      `json:"region"`
	City         string      `json:"city"`
}

func (PinModel) TableName() string { return "pins" }
