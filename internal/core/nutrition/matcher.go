package nutrition

import (
	"context"

	"nutrition-estimator/internal/core/fdc"
	"nutrition-estimator/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache 匹配結果緩存介面
// 記憶體與 redis 後端皆實現此介面（internal/core/nutrition/cache）
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// searcher 抽象搜尋端，測試時以假實作替換
type searcher interface {
	Search(ctx context.Context, query string, opts fdc.SearchOptions) (*fdc.SearchResponse, error)
}

// Matcher 食品匹配器：以清理後的食材名稱找出最佳資料庫候選
type Matcher interface {
	// Match 回傳排序後的最佳候選；無匹配時回傳 (nil, nil)
	Match(ctx context.Context, name string) (*fdc.FoodCandidate, error)
}

// FDCMatcher 以組成資料庫搜尋加啟發式重排實現的匹配器
type FDCMatcher struct {
	client searcher
	cache  Cache
}

// NewFDCMatcher 創建匹配器，cache 可為 nil（停用緩存）
func NewFDCMatcher(client searcher, cache Cache) *FDCMatcher {
	return &FDCMatcher{
		client: client,
		cache:  cache,
	}
}

// Match 查詢資料庫並重排候選
// 對固定的資料庫快照而言結果是名稱的純函數，因此可安全記憶化
func (m *FDCMatcher) Match(ctx context.Context, name string) (*fdc.FoodCandidate, error) {
	// 檢查緩存
	if m.cache != nil {
		if val, err := m.cache.Get(ctx, name); err == nil && val != "" {
			var cached fdc.FoodCandidate
			if err := common.ParseJSON(val, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	resp, err := m.client.Search(ctx, name, fdc.SearchOptions{})
	if err != nil {
		// 查無資料視為「無匹配」，非致命
		if fdc.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if resp == nil || len(resp.Foods) == 0 {
		common.LogDebug("資料庫無匹配結果",
			zap.String("name", name),
		)
		return nil, nil
	}

	ranked := fdc.Rank(name, resp.Foods)
	best := ranked[0]

	common.LogDebug("食品匹配完成",
		zap.String("name", name),
		zap.String("description", best.Description),
		zap.Float64("score", best.Score),
		zap.Int("candidates", len(resp.Foods)),
	)

	// 寫入緩存，失敗不影響結果
	if m.cache != nil {
		if data, err := common.ToJSON(best); err == nil {
			_ = m.cache.Set(ctx, name, data)
		}
	}

	return &best, nil
}
