package model

import (
	"time"
)

// ============================================================================
// 游戏类型常量
// ============================================================================

const (
	GameTypeRoulette  = "roulette"  // 轮盘
	GameTypeSlots     = "slots"     // 老虎机
	GameTypeDice      = "dice"      // 骰子
	GameTypeBlackjack = "blackjack" // 简化二十一点
)

const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

// ============================================================================
// 游戏流水实体
// ============================================================================

// GameRecord 游戏流水表
// 记录每一局游戏的投注与结算，是对账的核心依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 每笔流水有全局唯一局号 —— 便于追踪
// 3. WinAmount 是返还给玩家的总额，净盈亏 = WinAmount - BetAmount
type GameRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundNo   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"round_no"` // 局号（全局唯一）
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	GameType  string    `gorm:"type:varchar(20);not null" json:"game_type"`
	BetAmount int64     `gorm:"not null" json:"bet_amount"` // 投注金额
	WinAmount int64     `gorm:"not null" json:"win_amount"` // 返还金额（非负）
	Result    string    `gorm:"type:varchar(10);not null" json:"result"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (GameRecord) TableName() string {
	return "game_records"
}
