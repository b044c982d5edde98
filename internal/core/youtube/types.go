package youtube

import "fmt"

// Video 搜尋到的影片
type Video struct {
	ID    string
	Title string
}

// SearchResult 食材搜尋結果；失敗時 Videos 為空並附上 ErrorReason
type SearchResult struct {
	Videos      []Video
	ErrorReason string
}

// 給使用者看的失敗原因
const (
	ReasonNoKey         = "YouTube API key is not configured; set APP_YOUTUBE_API_KEY to enable video recommendations"
	ReasonQuotaExceeded = "YouTube API daily quota exceeded; try again tomorrow"
	ReasonAccessDenied  = "YouTube API access denied (403); check the API key and that YouTube Data API v3 is enabled"
	ReasonUnavailable   = "YouTube search is temporarily unavailable after repeated failures"
	reasonFailedPrefix  = "YouTube search failed: "
)

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
	Error *apiError `json:"error,omitempty"`
}

type videosResponse struct {
	Items []struct {
		Snippet struct {
			Description string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Reason string `json:"reason"`
	} `json:"errors"`
}

// StatusError YouTube API 回傳的錯誤狀態
type StatusError struct {
	Status  int
	Message string
	Body    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d", e.Status)
}
