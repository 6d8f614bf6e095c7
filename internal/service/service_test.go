package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shinobicasino/internal/config"
	"shinobicasino/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestEnv 内存数据库 + 内嵌 Redis + 测试配置
func newTestEnv(t *testing.T) (*gorm.DB, *redis.Client, *config.Config) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.GameRecord{},
		&model.DailyRewardClaim{},
		&model.Mission{},
		&model.OutboxMessage{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	cfg := &config.Config{
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{
				GameResult:  "casino.game.result",
				RankUp:      "casino.rank.up",
				DailyReward: "casino.daily.reward",
			},
		},
		Business: config.BusinessConfig{
			StartingBalance:        1000,
			DailyRewardAmount:      500,
			DailyRewardWindowHours: 24,
			LeaderboardLimit:       10,
			LeaderboardCacheTTL:    5,
			MaxRetryCount:          5,
		},
	}

	return db, rdb, cfg
}

func registerTestUser(t *testing.T, db *gorm.DB, cfg *config.Config, username, village string) *model.User {
	t.Helper()

	svc := NewUserService(db, cfg)
	user, err := svc.Register(context.Background(), username, "secret", village)
	if err != nil {
		t.Fatalf("注册测试用户失败: %v", err)
	}
	return user
}

// scriptedRand 按脚本顺序给出随机数的确定性随机源
type scriptedRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *scriptedRand) Intn(n int) int {
	v := s.ints[s.i]
	s.i++
	if v >= n {
		v = v % n
	}
	return v
}

func (s *scriptedRand) Float64() float64 {
	v := s.floats[s.f]
	s.f++
	return v
}

// countingRand 只记录调用次数，用于断言引擎没有被触碰
type countingRand struct {
	calls int
}

func (c *countingRand) Intn(n int) int {
	c.calls++
	return 0
}

func (c *countingRand) Float64() float64 {
	c.calls++
	return 0
}
