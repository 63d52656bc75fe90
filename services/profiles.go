package services

import (
	"errors"
	"strings"

	"codequest-platform/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// ProfileUpdate carries the player-editable fields; nil means unchanged.
type ProfileUpdate struct {
	Name            *string `json:"name,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	ThemePreference *string `json:"theme_preference,omitempty"`
}

func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update applies display-level profile changes. Progression fields
// (xp, level, coins) are off-limits here — only the reward ledger and
// the shop write those.
func (s *ProfileService) Update(userID string, update ProfileUpdate) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = strings.TrimSpace(*update.Name)
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = *update.AvatarURL
	}
	if update.ThemePreference != nil {
		fields["theme_preference"] = *update.ThemePreference
	}

	if len(fields) > 0 {
		res := s.DB.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.Get(userID)
}

// SetFeaturedAchievements pins up to FeaturedAchievementsCap earned
// achievements on the public profile. Achievements the user hasn't
// earned cannot be featured.
func (s *ProfileService) SetFeaturedAchievements(userID string, achievementIDs []string) (*models.Profile, error) {
	if len(achievementIDs) > models.FeaturedAchievementsCap {
		return nil, ErrInvalidState
	}

	if len(achievementIDs) > 0 {
		var earned int64
		if err := s.DB.Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id IN ?", userID, achievementIDs).
			Count(&earned).Error; err != nil {
			return nil, err
		}
		if earned != int64(len(achievementIDs)) {
			return nil, ErrUnauthorized
		}
	}

	res := s.DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("featured_achievements", datatypes.NewJSONSlice(achievementIDs))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(userID)
}

// PublicProfile is the subset of a profile visible to other players.
type PublicProfile struct {
	UserID               string   `json:"user_id"`
	Name                 string   `json:"name"`
	AvatarURL            *string  `json:"avatar_url,omitempty"`
	Level                int      `json:"level"`
	XPTotal              int64    `json:"xp_total"`
	FeaturedAchievements []string `json:"featured_achievements,omitempty"`
}

func (s *ProfileService) Public(userID string) (*PublicProfile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		UserID:               profile.UserID,
		Name:                 profile.Name,
		AvatarURL:            profile.AvatarURL,
		Level:                profile.Level,
		XPTotal:              profile.XPTotal,
		FeaturedAchievements: profile.FeaturedAchievements,
	}, nil
}

// SearchUsers finds peers by display name. Queries shorter than two
// characters return nothing, and the searching user is excluded.
func (s *ProfileService) SearchUsers(query, excludeUserID string, limit int) ([]PublicProfile, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []PublicProfile{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var profiles []models.Profile
	searchTerm := "%" + strings.ToLower(query) + "%"
	err := s.DB.
		Where("LOWER(name) LIKE ? AND user_id <> ?", searchTerm, excludeUserID).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	results := make([]PublicProfile, len(profiles))
	for i, p := range profiles {
		results[i] = PublicProfile{
			UserID:    p.UserID,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Level:     p.Level,
			XPTotal:   p.XPTotal,
		}
	}
	return results, nil
}

// Role returns the user's app role, defaulting to student when no row
// exists yet.
func (s *ProfileService) Role(userID string) (models.AppRole, error) {
	var role models.UserRole
	err := s.DB.Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleStudent, nil
	}
	if err != nil {
		return "", err
	}
	return role.Role, nil
}
