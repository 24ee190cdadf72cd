package fdc

import (
	"sort"
	"strings"
)

// 排序啟發式使用的詞彙表
var (
	produceQueryTerms = []string{"avocado", "fruit", "vegetable"}
	oilSourceTerms    = []string{"avocado", "olive", "coconut"}
	condimentTerms    = []string{"dressing", "spread", "dip", "sauce"}
)

// rankRule 排序規則：述詞成立時對分數加上 delta
// 規則表有序且各自獨立，便於單獨測試與擴充
type rankRule struct {
	name    string
	delta   float64
	applies func(query, desc string, m Macros) bool
}

var rankRules = []rankRule{
	{
		// 查詢指向生鮮農產品時，偏好 raw 而非油品
		name:  "raw produce bonus",
		delta: 50,
		applies: func(query, desc string, _ Macros) bool {
			return containsAny(query, produceQueryTerms) &&
				strings.Contains(desc, "raw") &&
				!strings.Contains(desc, "oil")
		},
	},
	{
		// 查詢農產品本身卻拿到油品，大幅降分
		name:  "oil product penalty",
		delta: -100,
		applies: func(query, desc string, _ Macros) bool {
			return containsAny(query, oilSourceTerms) &&
				strings.Contains(desc, "oil") &&
				!strings.Contains(query, "oil")
		},
	},
	{
		// 調味製品（醬料、抹醬等）不適合做食材匹配
		name:  "condiment penalty",
		delta: -30,
		applies: func(_, desc string, _ Macros) bool {
			return containsAny(desc, condimentTerms)
		},
	},
	{
		// 四項巨量營養素齊全的資料列優先
		name:  "complete macros bonus",
		delta: 50,
		applies: func(_, _ string, m Macros) bool {
			return m.Complete()
		},
	},
	{
		// 完全沒有營養數據的資料列沉底，但不移除
		name:  "missing macros penalty",
		delta: -1000,
		applies: func(_, _ string, m Macros) bool {
			return m.Empty()
		},
	},
}

// Rank 依領域啟發式重新排序搜尋結果
// 調整後分數不對外暴露；穩定排序保證同分時維持資料庫原始順序
func Rank(query string, foods []FoodCandidate) []FoodCandidate {
	queryLower := strings.ToLower(query)

	type scored struct {
		candidate FoodCandidate
		score     float64
	}

	adjusted := make([]scored, len(foods))
	for i, food := range foods {
		descLower := strings.ToLower(food.Description)
		macros := food.Macros()

		score := food.Score
		for _, rule := range rankRules {
			if rule.applies(queryLower, descLower, macros) {
				score += rule.delta
			}
		}
		adjusted[i] = scored{candidate: food, score: score}
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].score > adjusted[j].score
	})

	ranked := make([]FoodCandidate, len(adjusted))
	for i, s := range adjusted {
		ranked[i] = s.candidate
	}
	return ranked
}

// containsAny 檢查字串是否包含任一子字串
func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
