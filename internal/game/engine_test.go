package game

import (
	"math/rand"
	"testing"

	"shinobicasino/internal/model"

	"github.com/stretchr/testify/assert"
)

// scriptedRand 按脚本顺序给出随机数的确定性随机源
type scriptedRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *scriptedRand) Intn(n int) int {
	v := s.ints[s.i]
	s.i++
	if v >= n {
		v = v % n
	}
	return v
}

func (s *scriptedRand) Float64() float64 {
	v := s.floats[s.f]
	s.f++
	return v
}

func TestRouletteVillageBonus(t *testing.T) {
	// 开出 fire（索引0），命中 0.6 的胜率区间，konoha 吃到 2.0 倍加成
	rng := &scriptedRand{ints: []int{0}, floats: []float64{0.5}}

	outcome := PlayRoulette(rng, "fire", 100, model.VillageKonoha)

	assert.Equal(t, int64(200), outcome.WinAmount)
	assert.Equal(t, model.ResultWin, outcome.Result)
	assert.Equal(t, "fire", outcome.Detail["winning_element"])
}

func TestRouletteBaseMultiplier(t *testing.T) {
	// kumo 没有属性映射，永远只有 1.5 倍基础赔率
	rng := &scriptedRand{ints: []int{0}, floats: []float64{0.5}}

	outcome := PlayRoulette(rng, "fire", 100, model.VillageKumo)

	assert.Equal(t, int64(150), outcome.WinAmount)
	assert.Equal(t, model.ResultWin, outcome.Result)
}

func TestRouletteLose(t *testing.T) {
	rng := &scriptedRand{ints: []int{0}, floats: []float64{0.7}}

	outcome := PlayRoulette(rng, "fire", 100, model.VillageKonoha)

	assert.Equal(t, int64(0), outcome.WinAmount)
	assert.Equal(t, model.ResultLose, outcome.Result)
}

func TestRouletteElementMismatchNoBonus(t *testing.T) {
	// 开出 water（索引1），konoha 的属性是 fire，不触发加成
	rng := &scriptedRand{ints: []int{1}, floats: []float64{0.5}}

	outcome := PlayRoulette(rng, "fire", 100, model.VillageKonoha)

	assert.Equal(t, int64(150), outcome.WinAmount)
}

func TestSlotsJackpot(t *testing.T) {
	rng := &scriptedRand{ints: []int{2, 2, 2}}

	outcome := PlaySlots(rng, 100, model.VillageKonoha)

	assert.Equal(t, int64(1000), outcome.WinAmount)
	assert.Equal(t, model.ResultWin, outcome.Result)
}

func TestSlotsAdjacentPair(t *testing.T) {
	rng := &scriptedRand{ints: []int{1, 1, 5}}

	outcome := PlaySlots(rng, 100, model.VillageKonoha)
	assert.Equal(t, int64(300), outcome.WinAmount)

	rng = &scriptedRand{ints: []int{5, 1, 1}}
	outcome = PlaySlots(rng, 100, model.VillageKonoha)
	assert.Equal(t, int64(300), outcome.WinAmount)
}

func TestSlotsConsolation(t *testing.T) {
	// 三个互不相邻相同的符号，保底返还 20%
	rng := &scriptedRand{ints: []int{0, 3, 6}}

	outcome := PlaySlots(rng, 100, model.VillageKonoha)

	assert.Equal(t, int64(20), outcome.WinAmount)
	assert.Equal(t, model.ResultWin, outcome.Result)
}

func TestSlotsSunaMultiplier(t *testing.T) {
	rng := &scriptedRand{ints: []int{2, 2, 2}}

	outcome := PlaySlots(rng, 100, model.VillageSuna)

	// 加成在所有规则之后生效：1000 * 1.3
	assert.Equal(t, int64(1300), outcome.WinAmount)
}

func TestDicePayoutTable(t *testing.T) {
	cases := []struct {
		name string
		d1   int // Intn(6) 的返回值，点数 = 值 + 1
		d2   int
		want int64
	}{
		{"seven", 2, 3, 200},
		{"six", 2, 2, 150},
		{"eight", 3, 3, 150},
		{"snake eyes", 0, 0, 500},
		{"boxcars", 5, 5, 500},
		{"miss", 0, 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedRand{ints: []int{tc.d1, tc.d2}}
			outcome := PlayDice(rng, 100, model.VillageKonoha)
			assert.Equal(t, tc.want, outcome.WinAmount)
		})
	}
}

func TestDiceIwaMultiplier(t *testing.T) {
	rng := &scriptedRand{ints: []int{2, 3}}

	outcome := PlayDice(rng, 100, model.VillageIwa)

	assert.Equal(t, int64(300), outcome.WinAmount)

	// 未中奖时不吃加成
	rng = &scriptedRand{ints: []int{0, 2}}
	outcome = PlayDice(rng, 100, model.VillageIwa)
	assert.Equal(t, int64(0), outcome.WinAmount)
}

func TestBlackjackOutcomes(t *testing.T) {
	// 15 + Intn(7)：player 21 对 dealer 15
	rng := &scriptedRand{ints: []int{6, 0}}
	outcome := PlayBlackjack(rng, 100, model.VillageKonoha)
	assert.Equal(t, int64(200), outcome.WinAmount)
	assert.Equal(t, model.ResultWin, outcome.Result)

	// 平局退还本金
	rng = &scriptedRand{ints: []int{3, 3}}
	outcome = PlayBlackjack(rng, 100, model.VillageKonoha)
	assert.Equal(t, int64(100), outcome.WinAmount)
	assert.Equal(t, model.ResultDraw, outcome.Result)

	rng = &scriptedRand{ints: []int{0, 6}}
	outcome = PlayBlackjack(rng, 100, model.VillageKonoha)
	assert.Equal(t, int64(0), outcome.WinAmount)
	assert.Equal(t, model.ResultLose, outcome.Result)
}

func TestBlackjackKiriMultiplier(t *testing.T) {
	rng := &scriptedRand{ints: []int{6, 0}}

	outcome := PlayBlackjack(rng, 100, model.VillageKiri)

	assert.Equal(t, int64(260), outcome.WinAmount)
}

// TestWinAmountNeverNegative 用真实随机源扫一遍，返还金额永远非负
// 顺便验证 *math/rand.Rand 满足 Rand 接口
func TestWinAmountNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	villages := []string{
		model.VillageKonoha, model.VillageSuna, model.VillageKiri,
		model.VillageIwa, model.VillageKumo,
	}

	for i := 0; i < 1000; i++ {
		village := villages[i%len(villages)]
		for _, outcome := range []*Outcome{
			PlayRoulette(rng, "fire", 100, village),
			PlaySlots(rng, 100, village),
			PlayDice(rng, 100, village),
			PlayBlackjack(rng, 100, village),
		} {
			assert.GreaterOrEqual(t, outcome.WinAmount, int64(0))
		}
	}
}
