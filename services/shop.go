package services

import (
	"errors"
	"log"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopService struct {
	DB *gorm.DB
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{DB: db}
}

// ActiveItems lists what players can buy, grouped by type then price.
func (s *ShopService) ActiveItems() ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := s.DB.Where("is_active = ?", true).
		Order("type ASC").Order("price ASC").
		Find(&items).Error
	return items, err
}

// AllItems includes inactive items; admin console only.
func (s *ShopService) AllItems() ([]models.ShopItem, error) {
	var items []models.ShopItem
	err := s.DB.Order("type ASC").Order("price ASC").Find(&items).Error
	return items, err
}

// Inventory returns the user's purchases with the item configs hydrated.
func (s *ShopService) Inventory(userID string) ([]models.UserInventory, map[string]models.ShopItem, error) {
	var records []models.UserInventory
	if err := s.DB.Where("user_id = ?", userID).Order("purchased_at DESC").Find(&records).Error; err != nil {
		return nil, nil, err
	}

	byID := make(map[string]models.ShopItem, len(records))
	if len(records) > 0 {
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ItemID)
		}
		var items []models.ShopItem
		if err := s.DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
			return nil, nil, err
		}
		for _, it := range items {
			byID[it.ID] = it
		}
	}
	return records, byID, nil
}

// Purchase debits coins and grants the item in one transaction. The
// checks run in order: item active, affordable, not already owned.
// expectedPrice is the price the client displayed — a mismatch with the
// stored price is a Conflict, not a silent re-price.
func (s *ShopService) Purchase(userID, itemID string, expectedPrice int64) (*models.UserInventory, error) {
	var record models.UserInventory
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.ShopItem
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemUnavailable
			}
			return err
		}
		if !item.IsActive {
			return ErrItemUnavailable
		}
		if item.Price != expectedPrice {
			return ErrConflict
		}

		var profile models.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if profile.Coins < item.Price {
			return &InsufficientFundsError{
				Price:     item.Price,
				Balance:   profile.Coins,
				Shortfall: item.Price - profile.Coins,
			}
		}

		var owned int64
		if err := tx.Model(&models.UserInventory{}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return ErrAlreadyOwned
		}

		// Guarded debit: the coins >= price predicate makes a racing
		// purchase fail here instead of driving the balance negative.
		res := tx.Model(&models.Profile{}).
			Where("user_id = ? AND coins >= ?", userID, item.Price).
			Update("coins", gorm.Expr("coins - ?", item.Price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		record = models.UserInventory{
			ID:     uuid.NewString(),
			UserID: userID,
			ItemID: itemID,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOwned
			}
			return err
		}

		log.Printf("🛒 Purchase: %s bought %s for %d coins", userID, item.Name, item.Price)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Equip sets the profile's current avatar or frame. Ownership is
// required — equipping an unowned item is rejected — and the item's
// type has to match the slot.
func (s *ShopService) Equip(userID, itemID string, slot models.ItemType) (*models.Profile, error) {
	var column string
	switch slot {
	case models.ItemTypeAvatar:
		column = "current_avatar_id"
	case models.ItemTypeFrame:
		column = "current_frame_id"
	default:
		return nil, ErrInvalidState
	}

	var profile models.Profile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.ShopItem
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if item.Type != slot {
			return ErrInvalidState
		}

		var owned int64
		if err := tx.Model(&models.UserInventory{}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return ErrUnauthorized
		}

		res := tx.Model(&models.Profile{}).
			Where("user_id = ?", userID).
			Update(column, itemID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AssetDownloadURL returns the stored archive URL for an asset pack the
// user owns. Ownership gates the download the same way Equip gates
// cosmetics.
func (s *ShopService) AssetDownloadURL(userID, itemID string) (string, error) {
	var item models.ShopItem
	if err := s.DB.Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if item.Type != models.ItemTypeAssetPack || item.AssetDownloadURL == nil {
		return "", ErrInvalidState
	}

	var owned int64
	if err := s.DB.Model(&models.UserInventory{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&owned).Error; err != nil {
		return "", err
	}
	if owned == 0 {
		return "", ErrUnauthorized
	}
	return *item.AssetDownloadURL, nil
}
