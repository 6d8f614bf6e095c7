package repository

import (
	"context"

	"shinobicasino/internal/model"

	"gorm.io/gorm"
)

type GameRecordRepository struct {
	db *gorm.DB
}

func NewGameRecordRepository(db *gorm.DB) *GameRecordRepository {
	return &GameRecordRepository{db: db}
}

func (r *GameRecordRepository) Create(ctx context.Context, tx *gorm.DB, record *model.GameRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(record).Error
}

// UserStats 单个玩家的游戏流水聚合
type UserStats struct {
	GameCount int64 `json:"game_count"`
	TotalBet  int64 `json:"total_bet"`
	TotalWin  int64 `json:"total_win"`
}

func (r *GameRecordRepository) StatsByUserID(ctx context.Context, userID int64) (*UserStats, error) {
	var stats UserStats
	err := r.db.WithContext(ctx).
		Model(&model.GameRecord{}).
		Select("COUNT(*) AS game_count, COALESCE(SUM(bet_amount), 0) AS total_bet, COALESCE(SUM(win_amount), 0) AS total_win").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GameRecordRepository) ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*model.GameRecord, int64, error) {
	var records []*model.GameRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&model.GameRecord{}).Where("user_id = ?", userID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error

	return records, total, err
}
