package models

import "time"

// ItemType indicates what a shop item unlocks
type ItemType string

const (
	ItemTypeAvatar    ItemType = "avatar"
	ItemTypeFrame     ItemType = "frame"
	ItemTypeAssetPack ItemType = "asset_pack"
	ItemTypeTheme     ItemType = "theme"
)

// ShopItem is a purchasable cosmetic/asset. Only active items can be
// bought; inactive ones remain visible to admins.
type ShopItem struct {
	ID          string   `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Type        ItemType `gorm:"type:varchar(16);not null" json:"type"`
	Price       int64    `gorm:"not null;default:0" json:"price"`

	ImageURL         *string `gorm:"type:text" json:"image_url,omitempty"`         // R2 URL
	AssetDownloadURL *string `gorm:"type:text" json:"asset_download_url,omitempty"` // R2 URL, asset packs only

	// explicit, not a gorm default: default:true would swallow an
	// explicit false on insert
	IsActive bool `json:"is_active"`

	Timestamps
}

// UserInventory: purchase record, insert-only. The composite unique
// index makes a duplicate purchase impossible under concurrent requests.
type UserInventory struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_inventory_user_item" json:"user_id"`
	ItemID      string    `gorm:"not null;uniqueIndex:idx_inventory_user_item;index" json:"item_id"`
	PurchasedAt time.Time `json:"purchased_at" gorm:"autoCreateTime"`
}
