package fdc

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError 對外資料庫請求的類型化失敗
// 網路層失敗時 StatusCode 為 0、Body 為空
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fdc request failed: %v", e.Err)
	}
	return fmt.Sprintf("fdc request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized 檢查是否為認證失敗（401），呼叫端不應重試，需重新設定憑證
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound 檢查是否為查無資料（404），視為「無匹配」，非致命
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsRateLimited 檢查是否為超出配額（429），本層不重試，由呼叫端退避
func IsRateLimited(err error) bool {
	return statusOf(err) == http.StatusTooManyRequests
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
