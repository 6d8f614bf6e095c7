package model

import (
	"time"
)

// ============================================================================
// 村落（阵营）常量
// ============================================================================

const (
	VillageKonoha = "konoha" // 木叶 - 火
	VillageSuna   = "suna"   // 砂隐 - 风
	VillageKiri   = "kiri"   // 雾隐 - 水
	VillageIwa    = "iwa"    // 岩隐 - 土
	VillageKumo   = "kumo"   // 云隐 - 无对应属性加成
)

// ValidVillages 可选村落集合
var ValidVillages = map[string]bool{
	VillageKonoha: true,
	VillageSuna:   true,
	VillageKiri:   true,
	VillageIwa:    true,
	VillageKumo:   true,
}

// User 玩家账户表
// 记录玩家的金币（Ryo）余额，是整个赌场系统的核心数据
//
// 【重要】余额约束：
// 1. Ryo 永远 >= 0 —— 由条件 UPDATE 保证，不允许透支
// 2. TotalEarned 单调不减 —— 只累加正向变动
// 3. Rank 是余额的纯函数 —— 只有段位变化时才落库
type User struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash    string     `gorm:"type:varchar(128);not null" json:"-"`
	Village         string     `gorm:"type:varchar(20);not null;default:konoha" json:"village"`
	Ryo             int64      `gorm:"not null;default:1000" json:"ryo"`         // 可用余额（金币数）
	Rank            string     `gorm:"type:varchar(20);not null;default:genin" json:"rank"` // 段位（由余额推导）
	TotalEarned     int64      `gorm:"not null;default:0" json:"total_earned"`   // 累计获得金币（只增不减）
	LastDailyReward *time.Time `json:"last_daily_reward"`                        // 上次领取每日奖励时间
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
