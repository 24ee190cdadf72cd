package fdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candidate 建構測試用的候選食品
// macros 為 nil 表示完全沒有營養數據
func candidate(desc string, score float64, macros []float64) FoodCandidate {
	c := FoodCandidate{Description: desc, Score: score}
	if macros == nil {
		return c
	}
	ids := []int{NutrientEnergyKcal, NutrientProtein, NutrientFat, NutrientCarbs}
	for i, v := range macros {
		c.FoodNutrients = append(c.FoodNutrients, FoodNutrient{
			NutrientID: ids[i],
			Value:      v,
		})
	}
	return c
}

func fullMacros() []float64 {
	return []float64{100, 10, 5, 12}
}

func TestRankPrefersRawProduceOverOil(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Oil, avocado", 90, fullMacros()),
		candidate("Avocados, raw, all commercial varieties", 80, fullMacros()),
	}

	ranked := Rank("avocado", foods)
	require.Len(t, ranked, 2)
	// 80+50(raw)+50(macros)=180 對上 90-100(oil)+50(macros)=40
	assert.Equal(t, "Avocados, raw, all commercial varieties", ranked[0].Description)
}

func TestRankOilPenaltySkippedWhenQueryWantsOil(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Oil, olive, salad or cooking", 90, fullMacros()),
		candidate("Olives, ripe, canned", 85, fullMacros()),
	}

	// 查詢本身就要油品時不套用油品懲罰
	ranked := Rank("olive oil", foods)
	assert.Equal(t, "Oil, olive, salad or cooking", ranked[0].Description)
}

func TestRankCondimentPenalty(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Salad dressing, ranch", 100, fullMacros()),
		candidate("Lettuce, raw", 80, fullMacros()),
	}

	// 100-30=70 對上 80，調味製品沉到後面
	ranked := Rank("lettuce", foods)
	assert.Equal(t, "Lettuce, raw", ranked[0].Description)
}

func TestRankCompleteMacrosBeatIncomplete(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Rice, white, partial data", 90, []float64{100, 2}),
		candidate("Rice, white, cooked", 60, fullMacros()),
	}

	// 90 對上 60+50=110，營養齊全者勝出
	ranked := Rank("rice", foods)
	assert.Equal(t, "Rice, white, cooked", ranked[0].Description)
}

func TestRankMissingMacrosSinkToBottom(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Salt, branded, no data", 500, nil),
		candidate("Salt, table", 40, fullMacros()),
	}

	// -1000 懲罰讓無數據資料列沉底，但仍保留在結果中
	ranked := Rank("salt", foods)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Salt, table", ranked[0].Description)
	assert.Equal(t, "Salt, branded, no data", ranked[1].Description)
}

func TestRankStableOnTies(t *testing.T) {
	foods := []FoodCandidate{
		candidate("Beans, black, first", 50, fullMacros()),
		candidate("Beans, black, second", 50, fullMacros()),
		candidate("Beans, black, third", 50, fullMacros()),
	}

	ranked := Rank("beans", foods)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Beans, black, first", ranked[0].Description)
	assert.Equal(t, "Beans, black, second", ranked[1].Description)
	assert.Equal(t, "Beans, black, third", ranked[2].Description)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	foods := []FoodCandidate{
		candidate("B", 10, fullMacros()),
		candidate("A", 99, fullMacros()),
	}

	_ = Rank("beans", foods)
	assert.Equal(t, "B", foods[0].Description)
	assert.Equal(t, "A", foods[1].Description)
}

func TestMacrosCompleteAndEmpty(t *testing.T) {
	fullCandidate := candidate("x", 0, fullMacros())
	full := fullCandidate.Macros()
	assert.True(t, full.Complete())
	assert.False(t, full.Empty())

	partialCandidate := candidate("x", 0, []float64{100})
	partial := partialCandidate.Macros()
	assert.False(t, partial.Complete())
	assert.False(t, partial.Empty())

	noneCandidate := candidate("x", 0, nil)
	none := noneCandidate.Macros()
	assert.False(t, none.Complete())
	assert.True(t, none.Empty())
}
