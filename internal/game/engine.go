package game

import (
	"fmt"

	"shinobicasino/internal/model"
)

// ============================================================================
// 游戏结算引擎
// ============================================================================
//
// 【重要】引擎是纯函数：给定随机源与入参，输出完全确定
// 1. 不读写任何存储 —— 余额变更由调用方（下注协调器）统一执行
// 2. WinAmount 是返还给玩家的总额（非净利润），永远 >= 0
// 3. 随机源通过 Rand 接口注入，测试时可替换为确定性实现
//
// ============================================================================

// Rand 随机源
// *math/rand.Rand 直接满足该接口
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Outcome 单局结算结果
type Outcome struct {
	GameType  string                 `json:"game_type"`
	WinAmount int64                  `json:"win_amount"` // 返还总额，净利润 = WinAmount - 投注额
	Result    string                 `json:"result"`
	Detail    map[string]interface{} `json:"detail"`
}

// Elements 轮盘的五种属性
var Elements = []string{"fire", "water", "wind", "earth", "lightning"}

// villageElements 村落 -> 属性加成映射
// kumo 没有对应属性，永远吃不到轮盘加成
var villageElements = map[string]string{
	model.VillageKonoha: "fire",
	model.VillageSuna:   "wind",
	model.VillageKiri:   "water",
	model.VillageIwa:    "earth",
}

// slotSymbols 老虎机的 8 种符号
var slotSymbols = []string{"🍥", "🍃", "🌀", "💧", "🌍", "⚡", "🎯", "💰"}

// diceFaces 骰子点数对应的符号
var diceFaces = []string{"⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// DefaultElement 轮盘未指定押注属性时的默认值
const DefaultElement = "fire"

// PlayRoulette 轮盘
// 基础胜率 60%，赔率 1.5 倍；开出的属性与玩家村落属性一致时提升到 2.0 倍
func PlayRoulette(rng Rand, betElement string, betAmount int64, village string) *Outcome {
	winningElement := Elements[rng.Intn(len(Elements))]

	var winAmount int64
	result := model.ResultLose

	if rng.Float64() < 0.6 {
		multiplier := 1.5

		// 本村属性加成
		if element, ok := villageElements[village]; ok && winningElement == element {
			multiplier = 2.0
		}

		winAmount = int64(float64(betAmount) * multiplier)
		result = model.ResultWin
	}

	return &Outcome{
		GameType:  model.GameTypeRoulette,
		WinAmount: winAmount,
		Result:    result,
		Detail: map[string]interface{}{
			"bet_element":     betElement,
			"winning_element": winningElement,
			"details":         fmt.Sprintf("开出属性: %s", winningElement),
		},
	}
}

// PlaySlots 老虎机
// 保底返还 20% 投注；三连 10 倍，相邻两连 3 倍；suna 村最终结果再乘 1.3
func PlaySlots(rng Rand, betAmount int64, village string) *Outcome {
	symbols := make([]string, 3)
	for i := range symbols {
		symbols[i] = slotSymbols[rng.Intn(len(slotSymbols))]
	}

	// 保底小奖
	winAmount := int64(float64(betAmount) * 0.2)

	if symbols[0] == symbols[1] && symbols[1] == symbols[2] {
		// 三连大奖
		winAmount = betAmount * 10
	} else if symbols[0] == symbols[1] || symbols[1] == symbols[2] {
		winAmount = betAmount * 3
	}

	// 砂隐村加成
	if village == model.VillageSuna {
		winAmount = int64(float64(winAmount) * 1.3)
	}

	result := model.ResultLose
	if winAmount > 0 {
		result = model.ResultWin
	}

	return &Outcome{
		GameType:  model.GameTypeSlots,
		WinAmount: winAmount,
		Result:    result,
		Detail: map[string]interface{}{
			"symbols": symbols,
		},
	}
}

// PlayDice 骰子
// 掷两颗骰子取点数和：7 -> 2倍；6/8 -> 1.5倍；2/12 -> 5倍；其余 0
// iwa 村在中奖时再乘 1.5
func PlayDice(rng Rand, betAmount int64, village string) *Outcome {
	dice1 := rng.Intn(6) + 1
	dice2 := rng.Intn(6) + 1
	total := dice1 + dice2

	var winAmount int64
	switch {
	case total == 7:
		winAmount = betAmount * 2
	case total == 6 || total == 8:
		winAmount = int64(float64(betAmount) * 1.5)
	case total == 2 || total == 12:
		winAmount = betAmount * 5
	default:
		winAmount = 0
	}

	// 岩隐村加成
	if village == model.VillageIwa && winAmount > 0 {
		winAmount = int64(float64(winAmount) * 1.5)
	}

	result := model.ResultLose
	if winAmount > 0 {
		result = model.ResultWin
	}

	return &Outcome{
		GameType:  model.GameTypeDice,
		WinAmount: winAmount,
		Result:    result,
		Detail: map[string]interface{}{
			"dice1": diceFaces[dice1-1],
			"dice2": diceFaces[dice2-1],
			"total": total,
		},
	}
}

// PlayBlackjack 简化二十一点
// 双方在 [15,21] 均匀取分，高分胜、2 倍返还，平局退还本金。
// kiri 村在有返还时再乘 1.3
func PlayBlackjack(rng Rand, betAmount int64, village string) *Outcome {
	playerScore := drawBlackjackScore(rng)
	dealerScore := drawBlackjackScore(rng)

	var winAmount int64
	var result string

	switch {
	case playerScore > dealerScore:
		winAmount = betAmount * 2
		result = model.ResultWin
	case playerScore == dealerScore:
		winAmount = betAmount // 退还本金
		result = model.ResultDraw
	default:
		winAmount = 0
		result = model.ResultLose
	}

	// 雾隐村加成
	if village == model.VillageKiri && winAmount > 0 {
		winAmount = int64(float64(winAmount) * 1.3)
	}

	return &Outcome{
		GameType:  model.GameTypeBlackjack,
		WinAmount: winAmount,
		Result:    result,
		Detail: map[string]interface{}{
			"player_score": playerScore,
			"dealer_score": dealerScore,
		},
	}
}

func drawBlackjackScore(rng Rand) int {
	return 15 + rng.Intn(7)
}
