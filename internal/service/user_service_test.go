package service

import (
	"context"
	"testing"

	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	db, _, cfg := newTestEnv(t)
	ctx := context.Background()

	svc := NewUserService(db, cfg)

	user, err := svc.Register(ctx, "naruto", "rasengan", model.VillageKonoha)
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), user.Ryo)
	assert.Equal(t, model.RankGenin, user.Rank)
	assert.NotEqual(t, "rasengan", user.PasswordHash)

	got, err := svc.Login(ctx, "naruto", "rasengan")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, "naruto", "chidori")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Login(ctx, "ghost", "rasengan")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, _, cfg := newTestEnv(t)
	ctx := context.Background()

	svc := NewUserService(db, cfg)

	_, err := svc.Register(ctx, "naruto", "rasengan", model.VillageKonoha)
	assert.NoError(t, err)

	_, err = svc.Register(ctx, "naruto", "other", model.VillageSuna)
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestRegisterVillage(t *testing.T) {
	db, _, cfg := newTestEnv(t)
	ctx := context.Background()

	svc := NewUserService(db, cfg)

	// 未指定村落时默认木叶
	user, err := svc.Register(ctx, "naruto", "rasengan", "")
	assert.NoError(t, err)
	assert.Equal(t, model.VillageKonoha, user.Village)

	_, err = svc.Register(ctx, "sasuke", "chidori", "otogakure")
	assert.ErrorIs(t, err, ErrInvalidVillage)
}

func TestGetStats(t *testing.T) {
	db, rdb, cfg := newTestEnv(t)
	ctx := context.Background()

	registerTestUser(t, db, cfg, "naruto", model.VillageKonoha)

	// 两局轮盘：赢 +100、输 -100
	rng := &scriptedRand{ints: []int{0, 0}, floats: []float64{0.5, 0.9}}
	wagerSvc := NewWagerService(db, rdb, cfg, rng)
	for i := 0; i < 2; i++ {
		_, err := wagerSvc.Play(ctx, model.GameTypeRoulette, &PlayRequest{Username: "naruto", Bet: 100})
		assert.NoError(t, err)
	}

	svc := NewUserService(db, cfg)
	stats, err := svc.GetStats(ctx, "naruto")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalGames)
	assert.Equal(t, int64(200), stats.TotalBet)
	assert.Equal(t, int64(200), stats.TotalWin)
	assert.Equal(t, int64(100), stats.TotalEarned)
	assert.Equal(t, int64(0), stats.Profit)
}

func TestGetHistory(t *testing.T) {
	db, rdb, cfg := newTestEnv(t)
	ctx := context.Background()

	registerTestUser(t, db, cfg, "naruto", model.VillageKonoha)

	rng := &scriptedRand{
		ints:   []int{0, 0, 0},
		floats: []float64{0.9, 0.9, 0.9},
	}
	wagerSvc := NewWagerService(db, rdb, cfg, rng)
	for i := 0; i < 3; i++ {
		_, err := wagerSvc.Play(ctx, model.GameTypeRoulette, &PlayRequest{Username: "naruto", Bet: 10})
		assert.NoError(t, err)
	}

	svc := NewUserService(db, cfg)
	records, total, err := svc.GetHistory(ctx, "naruto", 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 2)
}
