package service

import (
	"context"

	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"

	"gorm.io/gorm"
)

type MissionService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	missionRepo *repository.MissionRepository
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		missionRepo: repository.NewMissionRepository(db),
	}
}

func (s *MissionService) ListMissions(ctx context.Context, username string) ([]*model.Mission, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.missionRepo.ListByUserID(ctx, user.ID)
}

// UpdateProgress 直接设置任务进度
// 进度达到任务自身的 Target 阈值时置为完成
func (s *MissionService) UpdateProgress(ctx context.Context, missionID int64, progress int64) (*model.Mission, error) {
	return s.missionRepo.SetProgress(ctx, missionID, progress)
}
