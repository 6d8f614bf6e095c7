package model

// ============================================================================
// 任务类型常量
// ============================================================================

const (
	MissionTypePlayGames   = "play_10_games" // 累计游玩 10 局
	MissionTypeEarnRyo     = "earn_5000_ryo" // 累计获得 5000 金币
	MissionTypeReachChunin = "reach_chunin"  // 晋升中忍
)

// MissionCatalogEntry 任务目录条目
// Target 是完成阈值，Reward 是完成后的奖励金额，两者是独立字段
type MissionCatalogEntry struct {
	Type   string
	Target int64
	Reward int64
}

// MissionCatalog 固定任务目录，注册时为每个新账户各生成一条
var MissionCatalog = []MissionCatalogEntry{
	{Type: MissionTypePlayGames, Target: 10, Reward: 500},
	{Type: MissionTypeEarnRyo, Target: 5000, Reward: 1000},
	{Type: MissionTypeReachChunin, Target: 1, Reward: 2000},
}

// Mission 任务表
// 每个账户持有目录中每种任务各一条，进度由对应事件累加，
// 进度达到 Target 后 Completed 置位（只置一次，不回退）
type Mission struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"index;not null" json:"user_id"`
	MissionType string `gorm:"type:varchar(32);not null" json:"mission_type"`
	Progress    int64  `gorm:"not null;default:0" json:"progress"`
	Target      int64  `gorm:"not null" json:"target"`
	Completed   bool   `gorm:"not null;default:false" json:"completed"`
	Reward      int64  `gorm:"not null" json:"reward"`
}

func (Mission) TableName() string {
	return "missions"
}
