package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"shinobicasino/internal/config"
	"shinobicasino/internal/game"
	"shinobicasino/internal/infrastructure/lock"
	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"
	"shinobicasino/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var ErrUnknownGameType = errors.New("未知的游戏类型")

// WagerService 下注协调器
// 一局下注 = 查余额 -> 结算 -> 余额变更 -> 流水/任务/段位 —— 必须表现为
// 对该账户的一个原子操作，任何一步失败整局回滚，不允许出现
// 只扣注不记账（或反之）的中间状态
type WagerService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	rng         game.Rand
	userRepo    *repository.UserRepository
	gameRepo    *repository.GameRecordRepository
	missionRepo *repository.MissionRepository
	outboxRepo  *repository.OutboxRepository
}

// NewWagerService 创建下注协调器
// 随机源显式注入：线上传 math/rand，测试传确定性实现
func NewWagerService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, rng game.Rand) *WagerService {
	return &WagerService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		rng:         rng,
		userRepo:    repository.NewUserRepository(db),
		gameRepo:    repository.NewGameRecordRepository(db),
		missionRepo: repository.NewMissionRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

type PlayRequest struct {
	Username string `json:"username" binding:"required"`
	Bet      int64  `json:"bet" binding:"required,gt=0"`
	Element  string `json:"element"` // 仅轮盘使用，缺省为 fire
}

type PlayResponse struct {
	RoundNo    string        `json:"round_no"`
	Game       string        `json:"game"`
	Outcome    *game.Outcome `json:"result"`
	NewBalance int64         `json:"new_balance"`
	NewRank    string        `json:"new_rank"`
}

// Play 执行一局下注
//
// 【关键点】下注是整个系统最核心的操作，需要保证：
// 1. 余额检查在结算引擎之前 —— 金币不足时引擎一次都不会被调用
// 2. 并发安全：按玩家维度的分布式锁，锁内重读余额再判定
// 3. 原子性：余额变更、游戏流水、任务进度、段位更新同生共死
func (s *WagerService) Play(ctx context.Context, gameType string, req *PlayRequest) (*PlayResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	// 锁外先挡掉明显不够的请求，少占一次锁
	if user.Ryo < req.Bet {
		return nil, repository.ErrBalanceNotEnough
	}

	roundNo := idgen.GenerateRoundNo()

	wagerLock := lock.NewWagerLock(s.redisClient, user.ID, roundNo)
	err = wagerLock.Lock(ctx, 100*time.Millisecond, 30)
	if err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer wagerLock.Unlock(ctx)

	// 获取锁后重读余额再判定，并发下注不会基于过期余额放行
	user, err = s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user.Ryo < req.Bet {
		return nil, repository.ErrBalanceNotEnough
	}

	outcome, err := s.resolve(gameType, req, user.Village)
	if err != nil {
		return nil, err
	}

	delta := outcome.WinAmount - req.Bet
	newBalance := user.Ryo + delta
	newRank := model.RankForBalance(newBalance)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.ApplyBalanceDelta(ctx, tx, user.ID, delta); err != nil {
			return err
		}

		record := &model.GameRecord{
			RoundNo:   roundNo,
			UserID:    user.ID,
			GameType:  gameType,
			BetAmount: req.Bet,
			WinAmount: outcome.WinAmount,
			Result:    outcome.Result,
		}
		if err := s.gameRepo.Create(ctx, tx, record); err != nil {
			return fmt.Errorf("记录游戏流水失败: %w", err)
		}

		if err := s.missionRepo.AddProgressByType(ctx, tx, user.ID, model.MissionTypePlayGames, 1); err != nil {
			return fmt.Errorf("更新任务进度失败: %w", err)
		}
		if delta > 0 {
			if err := s.missionRepo.AddProgressByType(ctx, tx, user.ID, model.MissionTypeEarnRyo, delta); err != nil {
				return fmt.Errorf("更新任务进度失败: %w", err)
			}
		}

		// 段位是余额的纯函数，只有实际变化时才落库
		if newRank != user.Rank {
			if err := s.userRepo.UpdateRank(ctx, tx, user.ID, newRank); err != nil {
				return fmt.Errorf("更新段位失败: %w", err)
			}
			if newRank != model.RankGenin {
				if err := s.missionRepo.AddProgressByType(ctx, tx, user.ID, model.MissionTypeReachChunin, 1); err != nil {
					return fmt.Errorf("更新任务进度失败: %w", err)
				}
			}
			if err := s.writeRankUpEvent(ctx, tx, user, newRank, newBalance); err != nil {
				return err
			}
		}

		return s.writeGameResultEvent(ctx, tx, user, record, newBalance, newRank)
	})

	if err != nil {
		return nil, err
	}

	log.Printf("下注结算完成: roundNo=%s, user=%s, game=%s, bet=%d, win=%d",
		roundNo, user.Username, gameType, req.Bet, outcome.WinAmount)

	return &PlayResponse{
		RoundNo:    roundNo,
		Game:       gameType,
		Outcome:    outcome,
		NewBalance: newBalance,
		NewRank:    newRank,
	}, nil
}

// resolve 调用结算引擎
// 引擎是纯函数，到这里余额检查已经通过
func (s *WagerService) resolve(gameType string, req *PlayRequest, village string) (*game.Outcome, error) {
	switch gameType {
	case model.GameTypeRoulette:
		element := req.Element
		if element == "" {
			element = game.DefaultElement
		}
		return game.PlayRoulette(s.rng, element, req.Bet, village), nil
	case model.GameTypeSlots:
		return game.PlaySlots(s.rng, req.Bet, village), nil
	case model.GameTypeDice:
		return game.PlayDice(s.rng, req.Bet, village), nil
	case model.GameTypeBlackjack:
		return game.PlayBlackjack(s.rng, req.Bet, village), nil
	default:
		return nil, ErrUnknownGameType
	}
}

func (s *WagerService) writeGameResultEvent(ctx context.Context, tx *gorm.DB, user *model.User, record *model.GameRecord, newBalance int64, newRank string) error {
	msgPayload := map[string]interface{}{
		"round_no":    record.RoundNo,
		"user_id":     user.ID,
		"username":    user.Username,
		"game_type":   record.GameType,
		"bet_amount":  record.BetAmount,
		"win_amount":  record.WinAmount,
		"result":      record.Result,
		"new_balance": newBalance,
		"new_rank":    newRank,
		"played_at":   time.Now().Format(time.RFC3339),
	}
	payloadBytes, _ := json.Marshal(msgPayload)

	outboxMsg := &model.OutboxMessage{
		MessageKey: record.RoundNo,
		Topic:      s.cfg.Kafka.Topic.GameResult,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
	if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
		return fmt.Errorf("写入消息失败: %w", err)
	}
	return nil
}

func (s *WagerService) writeRankUpEvent(ctx context.Context, tx *gorm.DB, user *model.User, newRank string, newBalance int64) error {
	msgPayload := map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"old_rank":  user.Rank,
		"new_rank":  newRank,
		"balance":   newBalance,
		"ranked_at": time.Now().Format(time.RFC3339),
	}
	payloadBytes, _ := json.Marshal(msgPayload)

	outboxMsg := &model.OutboxMessage{
		MessageKey: user.Username,
		Topic:      s.cfg.Kafka.Topic.RankUp,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
	if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
		return fmt.Errorf("写入消息失败: %w", err)
	}
	return nil
}
