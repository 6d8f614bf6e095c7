package model

import (
	"time"
)

// DailyRewardClaim 每日奖励领取记录表
// 只追加，不修改。每个账户在一个滚动 24 小时窗口内最多存在一条新记录，
// 由领取时的校验（持锁后二次检查）保证，而不是唯一索引
type DailyRewardClaim struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClaimNo      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"claim_no"`
	UserID       int64     `gorm:"index;not null" json:"user_id"`
	RewardAmount int64     `gorm:"not null" json:"reward_amount"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (DailyRewardClaim) TableName() string {
	return "daily_reward_claims"
}
