package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shinobicasino/internal/config"
	"shinobicasino/internal/repository"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// LeaderboardService 排行榜
// 直接查库会让最热的接口压在 users 表上，这里用 Redis 做 cache-aside：
// 短 TTL 过期，不做主动失效 —— 榜单允许秒级延迟
type LeaderboardService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	userRepo    *repository.UserRepository
}

func NewLeaderboardService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *LeaderboardService {
	return &LeaderboardService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
	}
}

type LeaderboardEntry struct {
	Position    int    `json:"position"`
	Username    string `json:"username"`
	Village     string `json:"village"`
	Ryo         int64  `json:"ryo"`
	RankTitle   string `json:"rank_title"`
	TotalEarned int64  `json:"total_earned"`
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.cfg.Business.LeaderboardLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	cached, err := s.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		var entries []*LeaderboardEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		// 缓存内容损坏时当作未命中，回源重建
	}

	users, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &LeaderboardEntry{
			Position:    i + 1,
			Username:    user.Username,
			Village:     user.Village,
			Ryo:         user.Ryo,
			RankTitle:   user.Rank,
			TotalEarned: user.TotalEarned,
		})
	}

	payload, err := json.Marshal(entries)
	if err == nil {
		ttl := time.Duration(s.cfg.Business.LeaderboardCacheTTL) * time.Second
		if setErr := s.redisClient.Set(ctx, cacheKey, payload, ttl).Err(); setErr != nil {
			log.Printf("写入排行榜缓存失败: %v", setErr)
		}
	}

	return entries, nil
}
