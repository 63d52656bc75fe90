package services

import (
	"errors"
	"log"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipService struct {
	DB *gorm.DB
}

func NewFriendshipService(db *gorm.DB) *FriendshipService {
	return &FriendshipService{DB: db}
}

// pairKey collapses the ordered (requester, addressee) pair into its
// unordered identity; the unique index on this column is what actually
// prevents duplicate or crossed requests under races.
func pairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

// SendRequest creates a pending friendship. It fails when the two users
// already share a record in any status or direction, and a user cannot
// befriend themself.
func (s *FriendshipService) SendRequest(requesterID, addresseeID string) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrInvalidState
	}

	if err := s.DB.Where("user_id = ?", addresseeID).First(&models.Profile{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing int64
	if err := s.DB.Model(&models.Friendship{}).
		Where("pair_key = ?", pairKey(requesterID, addresseeID)).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyExists
	}

	friendship := models.Friendship{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairKey:     pairKey(requesterID, addresseeID),
		Status:      models.FriendshipPending,
	}
	if err := s.DB.Create(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	log.Printf("🤝 Friend request: %s → %s", requesterID, addresseeID)
	return &friendship, nil
}

// AcceptRequest flips a pending record to accepted. Only the addressee
// may accept, and only from pending.
func (s *FriendshipService) AcceptRequest(friendshipID, userID string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := s.DB.Where("id = ?", friendshipID).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if friendship.AddresseeID != userID {
		return nil, ErrUnauthorized
	}
	if friendship.Status != models.FriendshipPending {
		return nil, ErrInvalidState
	}

	if err := s.DB.Model(&friendship).Update("status", models.FriendshipAccepted).Error; err != nil {
		return nil, err
	}
	friendship.Status = models.FriendshipAccepted
	return &friendship, nil
}

// RemoveFriendship deletes the record from any status — declining a
// pending request and unfriending use the same operation. Only a
// participant may remove it.
func (s *FriendshipService) RemoveFriendship(friendshipID, userID string) error {
	var friendship models.Friendship
	if err := s.DB.Where("id = ?", friendshipID).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if friendship.RequesterID != userID && friendship.AddresseeID != userID {
		return ErrUnauthorized
	}
	return s.DB.Unscoped().Delete(&friendship).Error
}

// BlockUser replaces whatever record exists between the two users with
// a blocked one held by the blocker. Blocking works from any prior
// state, including no relationship at all.
func (s *FriendshipService) BlockUser(blockerID, otherID string) (*models.Friendship, error) {
	if blockerID == otherID {
		return nil, ErrInvalidState
	}

	var friendship models.Friendship
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("pair_key = ?", pairKey(blockerID, otherID)).First(&friendship).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			friendship = models.Friendship{
				ID:          uuid.NewString(),
				RequesterID: blockerID,
				AddresseeID: otherID,
				PairKey:     pairKey(blockerID, otherID),
				Status:      models.FriendshipBlocked,
			}
			return tx.Create(&friendship).Error
		case err != nil:
			return err
		}
		if friendship.Status == models.FriendshipBlocked && friendship.RequesterID != blockerID {
			// the other side blocked first; their block stands
			return ErrUnauthorized
		}
		friendship.RequesterID = blockerID
		friendship.AddresseeID = otherID
		friendship.Status = models.FriendshipBlocked
		return tx.Save(&friendship).Error
	})
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// Friends lists accepted records where the user is on either side.
func (s *FriendshipService) Friends(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := s.DB.
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Find(&friendships).Error
	return friendships, err
}

// PendingRequests lists requests the user received and hasn't answered.
func (s *FriendshipService) PendingRequests(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := s.DB.
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Find(&friendships).Error
	return friendships, err
}

// SentRequests lists requests the user sent that are still pending.
func (s *FriendshipService) SentRequests(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := s.DB.
		Where("requester_id = ? AND status = ?", userID, models.FriendshipPending).
		Find(&friendships).Error
	return friendships, err
}

// FriendshipWith returns the record between two users regardless of
// direction, or nil when none exists.
func (s *FriendshipService) FriendshipWith(userID, otherID string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := s.DB.Where("pair_key = ?", pairKey(userID, otherID)).First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}
