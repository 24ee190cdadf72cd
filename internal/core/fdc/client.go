package fdc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"nutrition-estimator/internal/infrastructure/config"
	"nutrition-estimator/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// maxPageSize 每頁筆數上限，超過時靜默收斂而非拒絕
	maxPageSize = 200

	userAgent = "nutrition-estimator/1.0"
)

// Client 食品成分資料庫（FoodData Central）客戶端
// 不自動重試，重試策略屬於呼叫端
type Client struct {
	client   *resty.Client
	apiKey   string
	throttle *Throttle

	defaultPageSize  int
	defaultDataTypes []string
}

// NewClient 創建資料庫客戶端，節流器由外部注入以便測試替換
func NewClient(cfg *config.FDCConfig, throttle *Throttle) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		client:           client,
		apiKey:           cfg.APIKey,
		throttle:         throttle,
		defaultPageSize:  cfg.PageSize,
		defaultDataTypes: cfg.DataTypes,
	}
}

// Search 查詢食品搜尋端點
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = c.defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	pageNumber := opts.PageNumber
	if pageNumber <= 0 {
		pageNumber = 1
	}

	dataTypes := opts.DataTypes
	if len(dataTypes) == 0 {
		dataTypes = c.defaultDataTypes
	}

	params := map[string]string{
		"query":      query,
		"sortBy":     "score",
		"sortOrder":  "desc",
		"pageSize":   strconv.Itoa(pageSize),
		"pageNumber": strconv.Itoa(pageNumber),
		"api_key":    c.apiKey,
	}
	if len(dataTypes) > 0 {
		params["dataType"] = strings.Join(dataTypes, ",")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/foods/search")

	if err != nil {
		return nil, &APIError{Err: err}
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	common.LogDebug("食品搜尋完成",
		zap.String("query", query),
		zap.Int("total_hits", result.TotalHits),
		zap.Int("page_size", pageSize),
	)

	return &result, nil
}

// GetFood 查詢單一食品的詳細資料
// 聚合流程不會用到，但屬於客戶端的契約
func (c *Client) GetFood(ctx context.Context, fdcID int) (*FoodCandidate, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		Get(fmt.Sprintf("/food/%d", fdcID))

	if err != nil {
		return nil, &APIError{Err: err}
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var result FoodCandidate
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse food response: %w", err)
	}

	return &result, nil
}

// GetFoods 批次查詢多筆食品的詳細資料
func (c *Client) GetFoods(ctx context.Context, fdcIDs []int) ([]FoodCandidate, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	ids := make([]string, len(fdcIDs))
	for i, id := range fdcIDs {
		ids[i] = strconv.Itoa(id)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fdcIds":  strings.Join(ids, ","),
			"api_key": c.apiKey,
		}).
		Get("/foods")

	if err != nil {
		return nil, &APIError{Err: err}
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var result []FoodCandidate
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse foods response: %w", err)
	}

	return result, nil
}

// classifyStatus 將非 2xx 回應轉換為類型化失敗
func classifyStatus(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		common.LogError("資料庫認證失敗，請檢查 API Key",
			zap.Int("status", resp.StatusCode()),
		)
	case http.StatusTooManyRequests:
		common.LogWarn("資料庫請求超出配額",
			zap.Int("status", resp.StatusCode()),
		)
	}

	return apiErr
}
