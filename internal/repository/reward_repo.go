package repository

import (
	"context"

	"shinobicasino/internal/model"

	"gorm.io/gorm"
)

type DailyRewardRepository struct {
	db *gorm.DB
}

func NewDailyRewardRepository(db *gorm.DB) *DailyRewardRepository {
	return &DailyRewardRepository{db: db}
}

func (r *DailyRewardRepository) Create(ctx context.Context, tx *gorm.DB, claim *model.DailyRewardClaim) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(claim).Error
}

// GetLatestByUserID 取最近一次领取记录，不存在时返回 (nil, nil)
func (r *DailyRewardRepository) GetLatestByUserID(ctx context.Context, userID int64) (*model.DailyRewardClaim, error) {
	var claim model.DailyRewardClaim
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&claim).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *DailyRewardRepository) ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*model.DailyRewardClaim, int64, error) {
	var claims []*model.DailyRewardClaim
	var total int64

	query := r.db.WithContext(ctx).Model(&model.DailyRewardClaim{}).Where("user_id = ?", userID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&claims).Error

	return claims, total, err
}
