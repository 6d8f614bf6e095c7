package repository

import (
	"context"
	"errors"

	"shinobicasino/internal/model"

	"gorm.io/gorm"
)

var ErrMissionNotFound = errors.New("任务不存在")

type MissionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

func (r *MissionRepository) ListByUserID(ctx context.Context, userID int64) ([]*model.Mission, error) {
	var missions []*model.Mission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&missions).Error
	return missions, err
}

func (r *MissionRepository) GetByID(ctx context.Context, missionID int64) (*model.Mission, error) {
	var mission model.Mission
	err := r.db.WithContext(ctx).Where("id = ?", missionID).First(&mission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}
	return &mission, nil
}

// AddProgressByType 给指定类型的未完成任务累加进度
// 进度达到 Target 的任务随之置为完成。已完成的任务不再累加
func (r *MissionRepository) AddProgressByType(ctx context.Context, tx *gorm.DB, userID int64, missionType string, delta int64) error {
	if tx == nil {
		tx = r.db
	}

	err := tx.WithContext(ctx).
		Model(&model.Mission{}).
		Where("user_id = ? AND mission_type = ? AND completed = ?", userID, missionType, false).
		UpdateColumn("progress", gorm.Expr("progress + ?", delta)).Error
	if err != nil {
		return err
	}

	return r.markReached(ctx, tx, userID, missionType)
}

// SetProgress 直接设置任务进度，达到 Target 时置为完成
func (r *MissionRepository) SetProgress(ctx context.Context, missionID int64, progress int64) (*model.Mission, error) {
	mission, err := r.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	mission.Progress = progress
	if progress >= mission.Target {
		mission.Completed = true
	}

	err = r.db.WithContext(ctx).
		Model(&model.Mission{}).
		Where("id = ?", missionID).
		Updates(map[string]interface{}{
			"progress":  mission.Progress,
			"completed": mission.Completed,
		}).Error
	if err != nil {
		return nil, err
	}
	return mission, nil
}

func (r *MissionRepository) markReached(ctx context.Context, tx *gorm.DB, userID int64, missionType string) error {
	return tx.WithContext(ctx).
		Model(&model.Mission{}).
		Where("user_id = ? AND mission_type = ? AND completed = ? AND progress >= target", userID, missionType, false).
		Update("completed", true).Error
}
