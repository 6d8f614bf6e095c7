package handler

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"shinobicasino/internal/config"
	"shinobicasino/internal/model"
	"shinobicasino/internal/repository"
	"shinobicasino/internal/service"
	"shinobicasino/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	userService        *service.UserService
	wagerService       *service.WagerService
	rewardService      *service.RewardService
	missionService     *service.MissionService
	leaderboardService *service.LeaderboardService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Handler{
		userService:        service.NewUserService(db, cfg),
		wagerService:       service.NewWagerService(db, rdb, cfg, rng),
		rewardService:      service.NewRewardService(db, rdb, cfg),
		missionService:     service.NewMissionService(db),
		leaderboardService: service.NewLeaderboardService(db, rdb, cfg),
	}
}

// writeError 业务错误 -> 响应码映射
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserExists):
		response.BusinessError(c, response.CodeUserExists, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		response.BusinessError(c, response.CodeUserNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidPassword):
		response.BusinessError(c, response.CodeInvalidPassword, err.Error())
	case errors.Is(err, repository.ErrBalanceNotEnough):
		response.BusinessError(c, response.CodeBalanceNotEnough, err.Error())
	case errors.Is(err, service.ErrDailyAlreadyClaimed):
		response.BusinessError(c, response.CodeDailyAlreadyClaimed, err.Error())
	case errors.Is(err, service.ErrInvalidVillage), errors.Is(err, service.ErrUnknownGameType):
		response.ParamError(c, err.Error())
	default:
		// 存储等底层故障统一按服务端错误返回，事务已整体回滚
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// 账户相关接口
// ============================================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Village  string `json:"village"`
}

// Register 注册
// POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Password, req.Village)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"username": user.Username,
		"village":  user.Village,
		"ryo":      user.Ryo,
		"rank":     user.Rank,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录（校验密码，返回账户快照）
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"village":      user.Village,
		"ryo":          user.Ryo,
		"rank":         user.Rank,
		"total_earned": user.TotalEarned,
	})
}

// GetStats 查询玩家统计
// GET /api/stats/:username
func (h *Handler) GetStats(c *gin.Context) {
	username := c.Param("username")

	stats, err := h.userService.GetStats(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, stats)
}

// GetHistory 查询玩家游戏流水
// GET /api/history/:username?page=1&page_size=10
func (h *Handler) GetHistory(c *gin.Context) {
	username := c.Param("username")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	records, total, err := h.userService.GetHistory(c.Request.Context(), username, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// 游戏相关接口
// ============================================================

// PlayRoulette 轮盘
// POST /api/game/roulette
func (h *Handler) PlayRoulette(c *gin.Context) {
	h.playGame(c, model.GameTypeRoulette)
}

// PlaySlots 老虎机
// POST /api/game/slots
func (h *Handler) PlaySlots(c *gin.Context) {
	h.playGame(c, model.GameTypeSlots)
}

// PlayDice 骰子
// POST /api/game/dice
func (h *Handler) PlayDice(c *gin.Context) {
	h.playGame(c, model.GameTypeDice)
}

// PlayBlackjack 二十一点
// POST /api/game/blackjack
func (h *Handler) PlayBlackjack(c *gin.Context) {
	h.playGame(c, model.GameTypeBlackjack)
}

func (h *Handler) playGame(c *gin.Context, gameType string) {
	var req service.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.wagerService.Play(c.Request.Context(), gameType, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// ============================================================
// 每日奖励相关接口
// ============================================================

// CheckDailyReward 查询每日奖励领取资格
// GET /api/daily-reward/:username
func (h *Handler) CheckDailyReward(c *gin.Context) {
	username := c.Param("username")

	canClaim, err := h.rewardService.CanClaim(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"can_claim":     canClaim,
		"reward_amount": h.rewardService.RewardAmount(),
	})
}

// ClaimDailyRewardRequest 领取每日奖励请求
type ClaimDailyRewardRequest struct {
	Username string `json:"username" binding:"required"`
}

// ClaimDailyReward 领取每日奖励
// POST /api/claim-daily-reward
func (h *Handler) ClaimDailyReward(c *gin.Context) {
	var req ClaimDailyRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.rewardService.Claim(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// ============================================================
// 任务相关接口
// ============================================================

// GetMissions 查询任务列表
// GET /api/missions/:username
func (h *Handler) GetMissions(c *gin.Context) {
	username := c.Param("username")

	missions, err := h.missionService.ListMissions(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"missions": missions,
	})
}

// UpdateMissionProgressRequest 设置任务进度请求
type UpdateMissionProgressRequest struct {
	MissionID int64 `json:"mission_id" binding:"required"`
	Progress  int64 `json:"progress" binding:"min=0"`
}

// UpdateMissionProgress 设置任务进度
// POST /api/missions/progress
func (h *Handler) UpdateMissionProgress(c *gin.Context) {
	var req UpdateMissionProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	mission, err := h.missionService.UpdateProgress(c.Request.Context(), req.MissionID, req.Progress)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, mission)
}

// ============================================================
// 排行榜
// ============================================================

// GetLeaderboard 查询排行榜
// GET /api/leaderboard?limit=10
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"leaderboard": entries,
	})
}
