package services

import (
	"context"
	"log"
	"time"

	"codequest-platform/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:xp"

// LeaderboardService mirrors xp_total into a Redis sorted set. The
// profiles table stays the source of truth; the ZSET is a cache that is
// rebuilt lazily whenever it is found empty.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Level     int     `json:"level"`
	XPTotal   int64   `json:"xp_total"`
}

// RecordXP upserts the user's score. Called after every XP grant.
func (s *LeaderboardService) RecordXP(userID string, xpTotal int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.RDB.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(xpTotal), Member: userID}).Err()
}

// Top returns the first n entries plus the requesting user's rank
// (0 when unranked).
func (s *LeaderboardService) Top(n int, requestingUserID string) ([]LeaderboardEntry, int, error) {
	if n <= 0 || n > 100 {
		n = 10
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	size, err := s.RDB.ZCard(ctx, leaderboardKey).Result()
	if err != nil {
		return nil, 0, err
	}
	if size == 0 {
		if err := s.rebuild(ctx); err != nil {
			return nil, 0, err
		}
	}

	scores, err := s.RDB.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(scores))
	for _, z := range scores {
		ids = append(ids, z.Member.(string))
	}
	profilesByID := make(map[string]models.Profile, len(ids))
	if len(ids) > 0 {
		var profiles []models.Profile
		if err := s.DB.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, 0, err
		}
		for _, p := range profiles {
			profilesByID[p.UserID] = p
		}
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, z := range scores {
		userID := z.Member.(string)
		entry := LeaderboardEntry{
			Rank:    i + 1,
			UserID:  userID,
			XPTotal: int64(z.Score),
		}
		if p, ok := profilesByID[userID]; ok {
			entry.Name = p.Name
			entry.AvatarURL = p.AvatarURL
			entry.Level = p.Level
		}
		entries = append(entries, entry)
	}

	userRank := 0
	if requestingUserID != "" {
		rank, err := s.RDB.ZRevRank(ctx, leaderboardKey, requestingUserID).Result()
		if err == nil {
			userRank = int(rank) + 1
		} else if err != redis.Nil {
			return nil, 0, err
		}
	}
	return entries, userRank, nil
}

// rebuild repopulates the ZSET from the profiles table.
func (s *LeaderboardService) rebuild(ctx context.Context) error {
	var profiles []models.Profile
	if err := s.DB.Select("user_id", "xp_total").Find(&profiles).Error; err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	members := make([]redis.Z, len(profiles))
	for i, p := range profiles {
		members[i] = redis.Z{Score: float64(p.XPTotal), Member: p.UserID}
	}
	if err := s.RDB.ZAdd(ctx, leaderboardKey, members...).Err(); err != nil {
		return err
	}
	log.Printf("📊 Leaderboard rebuilt from %d profiles", len(profiles))
	return nil
}
