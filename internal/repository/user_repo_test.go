package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"shinobicasino/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

func newTestUser(t *testing.T, repo *UserRepository, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		PasswordHash: "digest",
		Village:      model.VillageKonoha,
		Ryo:          1000,
		Rank:         model.RankGenin,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func TestCreateSeedsMissions(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	missionRepo := NewMissionRepository(db)

	user := newTestUser(t, repo, "naruto")

	missions, err := missionRepo.ListByUserID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Len(t, missions, len(model.MissionCatalog))

	for i, entry := range model.MissionCatalog {
		assert.Equal(t, entry.Type, missions[i].MissionType)
		assert.Equal(t, entry.Target, missions[i].Target)
		assert.Equal(t, entry.Reward, missions[i].Reward)
		assert.Equal(t, int64(0), missions[i].Progress)
		assert.False(t, missions[i].Completed)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	missionRepo := NewMissionRepository(db)

	first := newTestUser(t, repo, "naruto")

	err := repo.Create(context.Background(), &model.User{
		Username:     "naruto",
		PasswordHash: "other",
		Village:      model.VillageSuna,
		Ryo:          1000,
		Rank:         model.RankGenin,
	})
	assert.ErrorIs(t, err, ErrUserExists)

	// 原账户不受影响，任务也没有被重复生成
	got, err := repo.GetByUsername(context.Background(), "naruto")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, model.VillageKonoha, got.Village)
	assert.Equal(t, int64(1000), got.Ryo)

	missions, err := missionRepo.ListByUserID(context.Background(), first.ID)
	assert.NoError(t, err)
	assert.Len(t, missions, len(model.MissionCatalog))
}

// 并发注册穿过预检查时，唯一索引兜底依赖驱动错误到
// gorm.ErrDuplicatedKey 的翻译；直接插入重复用户名验证翻译生效
func TestDuplicateUsernameKeyTranslated(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	newTestUser(t, repo, "naruto")

	err := db.Create(&model.User{
		Username:     "naruto",
		PasswordHash: "digest",
		Village:      model.VillageKonoha,
		Ryo:          1000,
		Rank:         model.RankGenin,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGetByUsernameNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyBalanceDelta(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, repo, "naruto")

	// 正向变动：余额与累计收益同时增加
	err := repo.ApplyBalanceDelta(ctx, nil, user.ID, 500)
	assert.NoError(t, err)

	got, _ := repo.GetByID(ctx, user.ID)
	assert.Equal(t, int64(1500), got.Ryo)
	assert.Equal(t, int64(500), got.TotalEarned)

	// 负向变动：只动余额，不动累计收益
	err = repo.ApplyBalanceDelta(ctx, nil, user.ID, -300)
	assert.NoError(t, err)

	got, _ = repo.GetByID(ctx, user.ID)
	assert.Equal(t, int64(1200), got.Ryo)
	assert.Equal(t, int64(500), got.TotalEarned)
}

func TestApplyBalanceDeltaGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, repo, "naruto")

	err := repo.ApplyBalanceDelta(ctx, nil, user.ID, -2000)
	assert.ErrorIs(t, err, ErrBalanceNotEnough)

	// 余额不会被部分扣减
	got, _ := repo.GetByID(ctx, user.ID)
	assert.Equal(t, int64(1000), got.Ryo)
	assert.Equal(t, int64(0), got.TotalEarned)
}

func TestApplyBalanceDeltaUserNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.ApplyBalanceDelta(context.Background(), nil, 12345, 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := newTestUser(t, repo, "naruto")
	b := newTestUser(t, repo, "sasuke")
	c := newTestUser(t, repo, "sakura")

	assert.NoError(t, repo.ApplyBalanceDelta(ctx, nil, b.ID, 5000)) // sasuke 6000
	assert.NoError(t, repo.ApplyBalanceDelta(ctx, nil, c.ID, 2000)) // sakura 3000
	_ = a                                                           // naruto 1000

	users, err := repo.Leaderboard(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "sasuke", users[0].Username)
	assert.Equal(t, "sakura", users[1].Username)
	assert.Equal(t, "naruto", users[2].Username)

	// 余额相同按注册顺序稳定排序
	assert.NoError(t, repo.ApplyBalanceDelta(ctx, nil, a.ID, 2000)) // naruto 3000，与 sakura 并列
	users, err = repo.Leaderboard(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, "naruto", users[1].Username)
	assert.Equal(t, "sakura", users[2].Username)
}

func TestUpdateRankAndLastDailyReward(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, repo, "naruto")

	assert.NoError(t, repo.UpdateRank(ctx, nil, user.ID, model.RankChunin))

	claimedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.SetLastDailyReward(ctx, nil, user.ID, claimedAt))

	got, _ := repo.GetByID(ctx, user.ID)
	assert.Equal(t, model.RankChunin, got.Rank)
	assert.NotNil(t, got.LastDailyReward)
	assert.True(t, got.LastDailyReward.Equal(claimedAt))
}
