package handler

import (
	"shinobicasino/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(db, rdb, cfg)

	// API 路由组
	api := r.Group("/api")
	{
		// 账户相关
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/stats/:username", h.GetStats)
		api.GET("/history/:username", h.GetHistory)

		// 游戏相关
		game := api.Group("/game")
		{
			game.POST("/roulette", h.PlayRoulette)
			game.POST("/slots", h.PlaySlots)
			game.POST("/dice", h.PlayDice)
			game.POST("/blackjack", h.PlayBlackjack)
		}

		// 每日奖励
		api.GET("/daily-reward/:username", h.CheckDailyReward)
		api.POST("/claim-daily-reward", h.ClaimDailyReward)

		// 任务
		api.GET("/missions/:username", h.GetMissions)
		api.POST("/missions/progress", h.UpdateMissionProgress)

		// 排行榜
		api.GET("/leaderboard", h.GetLeaderboard)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
