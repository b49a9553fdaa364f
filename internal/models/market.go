package models

// MarketItemModel is a marketplace listing. Sellers soft-deactivate listings
// via IsActive instead of deleting them.
type MarketItemModel struct {
	Base
	SellerUsername string      `json:"seller_username" gorm:"index;not null"`
	Title          string      `json:"title"           gorm:"not null"`
	Description    string      `json:"description"     gorm:"type:text"`
	Price          float64     `json:"price"           gorm:"not null"`
	Images         StringSlice `json:"images"          gorm:"type:longtext;serializer:json"`
	StoragePaths   StringSlice `json:"storage_paths"   gorm:"type:longtext;serializer:json"`
	IsActive       bool        `json:"is_active"       gorm:"default:true;index"`
}

func (MarketItemModel) TableName() string { return "marketplace_items" }
