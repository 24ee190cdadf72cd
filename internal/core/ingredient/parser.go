package ingredient

import (
	"regexp"
	"strconv"
	"strings"

	"nutrition-estimator/internal/pkg/common"

	"go.uber.org/zap"
)

// 「適量」食材的標記，命中時數量強制為 0 且不查詢資料庫
var toTasteMarkers = []string{"to taste", "pinch", "dash"}

// 準備/狀態修飾詞，清理名稱時以詞邊界整詞移除
// 多詞修飾詞必須排在前面，避免被單詞規則拆開
var descriptors = []string{
	"with skin",
	"sliced", "diced", "chopped", "minced", "grated", "shredded",
	"crushed", "ground", "powdered",
	"fresh", "frozen", "canned", "dried", "raw", "cooked",
	"roasted", "baked", "fried", "grilled", "steamed",
	"boneless", "skinless", "peeled",
}

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	bareFractionPattern  = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	mixedNumberPattern   = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:\s+(\d+)\s*/\s*(\d+))?`)
	descriptorPattern    = regexp.MustCompile(`\b(` + strings.Join(descriptors, "|") + `)\b`)
	separatorPattern     = regexp.MustCompile(`[,\s]+`)
)

// Parse 將一行自由文字食材解析為 ParsedIngredient
// 解析規則依序套用，先命中者優先
func Parse(text string) common.ParsedIngredient {
	lower := strings.ToLower(strings.TrimSpace(text))

	// 規則一：「適量」食材
	if containsAny(lower, toTasteMarkers) {
		name := stripToTaste(lower)
		common.LogDebug("解析為適量食材",
			zap.String("text", text),
			zap.String("name", name),
		)
		return common.ParsedIngredient{
			Quantity:     0,
			Unit:         common.UnitToTaste,
			Name:         name,
			OriginalText: text,
		}
	}

	// 規則二：解析前導數量；無數量時預設為 1 個
	quantity := 1.0
	rest := lower
	if q, remainder, ok := parseQuantity(lower); ok {
		quantity = q
		rest = strings.TrimSpace(remainder)
	}

	// 規則三：下一個 token 若是已知單位則消耗之，否則視為名稱開頭
	unit := common.UnitCount
	if fields := strings.Fields(rest); len(fields) > 0 {
		if IsUnit(fields[0]) {
			unit = fields[0]
			rest = strings.TrimSpace(rest[len(fields[0]):])
		}
	}

	// 規則四：清理名稱；清空時回退到未清理的名稱
	name := cleanName(rest)
	if name == "" {
		name = strings.TrimSpace(rest)
	}

	common.LogDebug("食材解析完成",
		zap.String("text", text),
		zap.Float64("quantity", quantity),
		zap.String("unit", unit),
		zap.String("name", name),
	)

	return common.ParsedIngredient{
		Quantity:     quantity,
		Unit:         unit,
		Name:         name,
		OriginalText: text,
	}
}

// parseQuantity 解析前導數字：整數/小數、純分數（a/b）或帶分數（a b/c）
// 分母為零的分數部分貢獻 0
func parseQuantity(s string) (float64, string, bool) {
	// 純分數需先於帶分數檢查，否則 "1/2" 會被當成整數 1
	if m := bareFractionPattern.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		q := 0.0
		if den != 0 {
			q = num / den
		}
		return q, s[len(m[0]):], true
	}

	if m := mixedNumberPattern.FindStringSubmatch(s); m != nil {
		q, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, s, false
		}
		if m[2] != "" {
			num, _ := strconv.ParseFloat(m[2], 64)
			den, _ := strconv.ParseFloat(m[3], 64)
			if den != 0 {
				q += num / den
			}
		}
		return q, s[len(m[0]):], true
	}

	return 0, s, false
}

// cleanName 清理食材名稱：去除括號子句與修飾詞、折疊空白與逗號、修剪
// 清理是冪等的：對已清理的名稱再清理一次會得到相同結果
func cleanName(s string) string {
	s = parentheticalPattern.ReplaceAllString(s, " ")
	s = descriptorPattern.ReplaceAllString(s, " ")
	s = separatorPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripToTaste 「適量」食材只去除括號子句後折疊空白
func stripToTaste(s string) string {
	s = parentheticalPattern.ReplaceAllString(s, " ")
	s = separatorPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
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
