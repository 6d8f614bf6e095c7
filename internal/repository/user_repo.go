package repository

import (
	"context"
	"errors"
	"time"

	"shinobicasino/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUserExists       = errors.New("用户名已被注册")
	ErrBalanceNotEnough = errors.New("金币不足")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 注册新账户，并在同一事务内按任务目录生成初始任务
// 用户名重复返回 ErrUserExists，已有账户不受影响
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}

		if err := tx.Create(user).Error; err != nil {
			// 唯一索引兜底，并发注册同名时只有一个能成功
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return err
		}

		missions := make([]*model.Mission, 0, len(model.MissionCatalog))
		for _, entry := range model.MissionCatalog {
			missions = append(missions, &model.Mission{
				UserID:      user.ID,
				MissionType: entry.Type,
				Progress:    0,
				Target:      entry.Target,
				Completed:   false,
				Reward:      entry.Reward,
			})
		}
		return tx.Create(&missions).Error
	})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ApplyBalanceDelta 对余额施加一次变动
//
// 【关键点】条件 UPDATE 保证原子性：
// 1. WHERE 带 ryo + delta >= 0 的守卫，余额永远不会变成负数
// 2. 正向变动同时累加 total_earned（只增不减）
// 3. 影响 0 行时区分"账户不存在"和"余额不足"
func (r *UserRepository) ApplyBalanceDelta(ctx context.Context, tx *gorm.DB, userID int64, delta int64) error {
	if tx == nil {
		tx = r.db
	}

	updates := map[string]interface{}{
		"ryo": gorm.Expr("ryo + ?", delta),
	}
	if delta > 0 {
		updates["total_earned"] = gorm.Expr("total_earned + ?", delta)
	}

	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND ryo + ? >= 0", userID, delta).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Ryo+delta < 0 {
			return ErrBalanceNotEnough
		}
		return ErrUserNotFound
	}

	return nil
}

// UpdateRank 持久化新段位
// 调用方只在段位实际变化时调用（段位是余额的纯函数，重复写没有意义）
func (r *UserRepository) UpdateRank(ctx context.Context, tx *gorm.DB, userID int64, rank string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("rank", rank).Error
}

// SetLastDailyReward 记录本次每日奖励领取时间
func (r *UserRepository) SetLastDailyReward(ctx context.Context, tx *gorm.DB, userID int64, claimedAt time.Time) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_daily_reward", claimedAt).Error
}

// Leaderboard 按余额降序取前 limit 名
// 余额相同时按主键顺序（即注册顺序）稳定排序
func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("ryo DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
