package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"shinobicasino/internal/config"
	"shinobicasino/internal/infrastructure/lock"
	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"
	"shinobicasino/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var ErrDailyAlreadyClaimed = errors.New("每日奖励 24 小时内只能领取一次")

// RewardService 每日奖励
// 领取窗口以最近一条领取流水的时间戳为准：滚动 24 小时，
// 不是按自然日归零。账户上的 LastDailyReward 是冗余快照，随领取同步更新
type RewardService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	userRepo    *repository.UserRepository
	rewardRepo  *repository.DailyRewardRepository
	missionRepo *repository.MissionRepository
	outboxRepo  *repository.OutboxRepository

	// Now 可注入时钟，测试时固定
	Now func() time.Time
}

func NewRewardService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *RewardService {
	return &RewardService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
		rewardRepo:  repository.NewDailyRewardRepository(db),
		missionRepo: repository.NewMissionRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
		Now:         time.Now,
	}
}

type ClaimResponse struct {
	ClaimNo      string `json:"claim_no"`
	RewardAmount int64  `json:"reward_amount"`
	NewBalance   int64  `json:"new_balance"`
}

// CanClaim 查询当前是否可以领取
func (s *RewardService) CanClaim(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return s.eligible(ctx, user.ID)
}

// RewardAmount 当前配置的每日奖励金额
func (s *RewardService) RewardAmount() int64 {
	return s.cfg.Business.DailyRewardAmount
}

// Claim 领取每日奖励
//
// 【关键点】"检查-领取"必须持锁执行：
// 两个并发领取请求都可能通过锁外的资格检查，持锁后重读账户再判定，
// 同一个 24 小时窗口内只会有一个成功
func (s *RewardService) Claim(ctx context.Context, username string) (*ClaimResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ok, err := s.eligible(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDailyAlreadyClaimed
	}

	claimNo := idgen.GenerateClaimNo()

	rewardLock := lock.NewDailyRewardLock(s.redisClient, user.ID, claimNo)
	err = rewardLock.Lock(ctx, 100*time.Millisecond, 30)
	if err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer rewardLock.Unlock(ctx)

	// 获取锁后重读账户并重查领取流水，再次检查资格
	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	ok, err = s.eligible(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDailyAlreadyClaimed
	}

	amount := s.cfg.Business.DailyRewardAmount
	claimedAt := s.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.ApplyBalanceDelta(ctx, tx, user.ID, amount); err != nil {
			return fmt.Errorf("发放奖励失败: %w", err)
		}

		if err := s.userRepo.SetLastDailyReward(ctx, tx, user.ID, claimedAt); err != nil {
			return fmt.Errorf("更新领取时间失败: %w", err)
		}

		// CreatedAt 显式取注入时钟，领取流水是资格判定的依据
		claim := &model.DailyRewardClaim{
			ClaimNo:      claimNo,
			UserID:       user.ID,
			RewardAmount: amount,
			CreatedAt:    claimedAt,
		}
		if err := s.rewardRepo.Create(ctx, tx, claim); err != nil {
			return fmt.Errorf("记录领取流水失败: %w", err)
		}

		if err := s.missionRepo.AddProgressByType(ctx, tx, user.ID, model.MissionTypeEarnRyo, amount); err != nil {
			return fmt.Errorf("更新任务进度失败: %w", err)
		}

		msgPayload := map[string]interface{}{
			"claim_no":      claimNo,
			"user_id":       user.ID,
			"username":      user.Username,
			"reward_amount": amount,
			"claimed_at":    claimedAt.Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: claimNo,
			Topic:      s.cfg.Kafka.Topic.DailyReward,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Printf("每日奖励发放成功: claimNo=%s, user=%s, amount=%d", claimNo, user.Username, amount)

	return &ClaimResponse{
		ClaimNo:      claimNo,
		RewardAmount: amount,
		NewBalance:   user.Ryo + amount,
	}, nil
}

// eligible 以领取流水为准判定资格：没有任何记录，或最近一条距今已满窗口
func (s *RewardService) eligible(ctx context.Context, userID int64) (bool, error) {
	latest, err := s.rewardRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	window := time.Duration(s.cfg.Business.DailyRewardWindowHours) * time.Hour
	return s.Now().Sub(latest.CreatedAt) >= window, nil
}
