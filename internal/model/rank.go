package model

// ============================================================================
// 段位常量
// ============================================================================

const (
	RankGenin  = "genin"  // 下忍 - 初始段位
	RankChunin = "chunin" // 中忍 - 余额 >= 10,000
	RankJonin  = "jonin"  // 上忍 - 余额 >= 100,000
	RankKage   = "kage"   // 影   - 余额 >= 1,000,000
)

const (
	rankChuninThreshold = 10_000
	rankJoninThreshold  = 100_000
	rankKageThreshold   = 1_000_000
)

// RankForBalance 由当前余额推导段位
// 纯函数：相同余额永远得到相同段位
func RankForBalance(ryo int64) string {
	switch {
	case ryo >= rankKageThreshold:
		return RankKage
	case ryo >= rankJoninThreshold:
		return RankJonin
	case ryo >= rankChuninThreshold:
		return RankChunin
	default:
		return RankGenin
	}
}
