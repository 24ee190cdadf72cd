package fdc

// FoodData Central 巨量營養素的固定營養素代碼
const (
	NutrientEnergyKcal = 1008 // 熱量 (kcal)
	NutrientProtein    = 1003 // 蛋白質 (g)
	NutrientFat        = 1004 // 總脂肪 (g)
	NutrientCarbs      = 1005 // 碳水化合物（差值法）(g)
)

// FoodNutrient 候選食品的單一營養素（每 100 克含量）
type FoodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// FoodCandidate 搜尋結果中的一列候選食品
// 由客戶端持有，單次查詢期間唯讀
type FoodCandidate struct {
	FDCID         int            `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	Score         float64        `json:"score"` // 資料庫原始相關性分數
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// Nutrient 依營養素代碼查詢候選食品的含量，不存在時回傳 false
func (c *FoodCandidate) Nutrient(nutrientID int) (float64, bool) {
	for _, n := range c.FoodNutrients {
		if n.NutrientID == nutrientID {
			return n.Value, true
		}
	}
	return 0, false
}

// Macros 四種巨量營養素的每 100 克含量，nil 表示資料庫缺少該項
type Macros struct {
	Calories *float64
	Protein  *float64
	Fat      *float64
	Carbs    *float64
}

// Complete 回報四項巨量營養素是否齊全
func (m Macros) Complete() bool {
	return m.Calories != nil && m.Protein != nil && m.Fat != nil && m.Carbs != nil
}

// Empty 回報是否四項巨量營養素全部缺失
func (m Macros) Empty() bool {
	return m.Calories == nil && m.Protein == nil && m.Fat == nil && m.Carbs == nil
}

// Macros 取出候選食品的巨量營養素，缺失項為 nil
func (c *FoodCandidate) Macros() Macros {
	var m Macros
	if v, ok := c.Nutrient(NutrientEnergyKcal); ok {
		m.Calories = &v
	}
	if v, ok := c.Nutrient(NutrientProtein); ok {
		m.Protein = &v
	}
	if v, ok := c.Nutrient(NutrientFat); ok {
		m.Fat = &v
	}
	if v, ok := c.Nutrient(NutrientCarbs); ok {
		m.Carbs = &v
	}
	return m
}

// SearchOptions 搜尋選項
type SearchOptions struct {
	DataTypes  []string // 資料來源類別過濾
	PageSize   int      // 每頁筆數，超過上限會被靜默收斂
	PageNumber int
}

// SearchResponse 食品搜尋回應
type SearchResponse struct {
	TotalHits   int             `json:"totalHits"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	Foods       []FoodCandidate `json:"foods"`
}
