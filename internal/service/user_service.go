package service

import (
	"context"
	"errors"
	"fmt"

	"shinobicasino/internal/config"
	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"
	"shinobicasino/pkg/password"

	"gorm.io/gorm"
)

var (
	ErrInvalidPassword = errors.New("密码错误")
	ErrInvalidVillage  = errors.New("无效的村落")
)

type UserService struct {
	db       *gorm.DB
	cfg      *config.Config
	userRepo *repository.UserRepository
	gameRepo *repository.GameRecordRepository
}

func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{
		db:       db,
		cfg:      cfg,
		userRepo: repository.NewUserRepository(db),
		gameRepo: repository.NewGameRecordRepository(db),
	}
}

// Register 注册新账户
// 赠送初始金币，初始段位为下忍，并按任务目录生成三条初始任务
func (s *UserService) Register(ctx context.Context, username, plainPassword, village string) (*model.User, error) {
	if village == "" {
		village = model.VillageKonoha
	}
	if !model.ValidVillages[village] {
		return nil, ErrInvalidVillage
	}

	digest, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("生成密码摘要失败: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: digest,
		Village:      village,
		Ryo:          s.cfg.Business.StartingBalance,
		Rank:         model.RankGenin,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 校验密码并返回账户快照
func (s *UserService) Login(ctx context.Context, username, plainPassword string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// StatsResponse 玩家统计
type StatsResponse struct {
	TotalGames  int64 `json:"total_games"`
	TotalBet    int64 `json:"total_bet"`
	TotalWin    int64 `json:"total_win"`
	TotalEarned int64 `json:"total_earned"`
	Profit      int64 `json:"profit"`
}

// GetStats 聚合玩家的游戏流水统计
func (s *UserService) GetStats(ctx context.Context, username string) (*StatsResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stats, err := s.gameRepo.StatsByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("查询流水统计失败: %w", err)
	}

	return &StatsResponse{
		TotalGames:  stats.GameCount,
		TotalBet:    stats.TotalBet,
		TotalWin:    stats.TotalWin,
		TotalEarned: user.TotalEarned,
		Profit:      stats.TotalWin - stats.TotalBet,
	}, nil
}

// GetHistory 分页查询玩家的游戏流水
func (s *UserService) GetHistory(ctx context.Context, username string, page, pageSize int) ([]*model.GameRecord, int64, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, 0, err
	}
	return s.gameRepo.ListByUserID(ctx, user.ID, page, pageSize)
}
