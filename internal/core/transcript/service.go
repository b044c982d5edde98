// Package transcript 從 YouTube 字幕或影片說明整理出食譜步驟。
//
// 流程：觀看頁面取得字幕軌 → 下載 json3 字幕 → 合併成步驟；
// 任一階段失敗或沒有結果時改用影片說明欄。整個流程不回傳錯誤，
// 最差的結果是空步驟列表。
package transcript

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fridge-recipe/internal/infrastructure/httpclient"
	"fridge-recipe/internal/pkg/common"
	"fridge-recipe/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	serviceName = "youtube_transcript"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	SourceCaptions    = "captions"
	SourceDescription = "description"
	SourceNone        = "none"
)

var (
	captionTracks = regexp.MustCompile(`"captionTracks":\s*\[\s*\{\s*"baseUrl":"([^"]+)"`)
	invalidIDChar = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// DescriptionSource 影片說明欄來源，失敗時回傳空字串
type DescriptionSource interface {
	GetVideoDescription(ctx context.Context, videoID string) string
}

// Service 字幕步驟擷取
type Service struct {
	http      *resty.Client
	watchBase string
	desc      DescriptionSource
}

// NewService 創建服務；watchBase 為空時使用 https://www.youtube.com
func NewService(httpClient *resty.Client, watchBase string, desc DescriptionSource) *Service {
	if watchBase == "" {
		watchBase = "https://www.youtube.com"
	}
	return &Service{
		http:      httpClient,
		watchBase: strings.TrimRight(watchBase, "/"),
		desc:      desc,
	}
}

// SanitizeVideoID 只保留英數字、底線與連字號
func SanitizeVideoID(id string) string {
	return invalidIDChar.ReplaceAllString(strings.TrimSpace(id), "")
}

// GetRecipeSteps 取得影片的食譜步驟
func (s *Service) GetRecipeSteps(ctx context.Context, videoID, title string) common.YoutubeRecipeStepsDto {
	result := common.YoutubeRecipeStepsDto{
		VideoID: strings.TrimSpace(videoID),
		Title:   title,
		Steps:   []string{},
	}
	id := SanitizeVideoID(videoID)
	if id == "" {
		metrics.TranscriptStepsTotal.WithLabelValues(SourceNone).Inc()
		return result
	}
	result.VideoID = id

	if lines := s.captionLines(ctx, id); len(lines) > 0 {
		if steps := SegmentCaptions(lines); len(steps) > 0 {
			result.Steps = steps
			metrics.TranscriptStepsTotal.WithLabelValues(SourceCaptions).Inc()
			return result
		}
	}

	if s.desc != nil {
		if desc := s.desc.GetVideoDescription(ctx, id); strings.TrimSpace(desc) != "" {
			if steps := SegmentDescription(desc); len(steps) > 0 {
				common.LogDebug("沒有字幕，改用影片說明整理步驟", zap.String("video_id", id))
				result.Steps = steps
				metrics.TranscriptStepsTotal.WithLabelValues(SourceDescription).Inc()
				return result
			}
		}
	}

	metrics.TranscriptStepsTotal.WithLabelValues(SourceNone).Inc()
	return result
}

// captionLines 字幕的每個事件一行；找不到字幕軌或失敗時回傳 nil
func (s *Service) captionLines(ctx context.Context, id string) []string {
	trackURL, err := s.captionTrackURL(ctx, id)
	if err != nil {
		common.LogDebug("觀看頁面取得失敗", zap.String("video_id", id), zap.Error(err))
		return nil
	}
	if trackURL == "" {
		return nil
	}

	lines, err := s.fetchCaptions(ctx, trackURL)
	if err != nil {
		common.LogDebug("字幕內容取得失敗", zap.String("video_id", id), zap.Error(err))
		return nil
	}
	return lines
}

func (s *Service) captionTrackURL(ctx context.Context, id string) (string, error) {
	const op = "watch_page"
	start := time.Now()
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		SetHeader("User-Agent", browserUserAgent).
		SetQueryParam("v", id).
		Get(s.watchBase + "/watch")
	if err = s.record(op, start, resp, err); err != nil {
		return "", err
	}
	return ExtractCaptionURL(resp.String()), nil
}

func (s *Service) fetchCaptions(ctx context.Context, trackURL string) ([]string, error) {
	const op = "caption_track"
	start := time.Now()
	resp, err := s.http.R().
		SetContext(ctx).
		Get(CaptionJSONURL(trackURL))
	if err = s.record(op, start, resp, err); err != nil {
		return nil, err
	}

	var body timedText
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode captions: %w", err)
	}
	return body.lines(), nil
}

func (s *Service) record(op string, start time.Time, resp *resty.Response, err error) error {
	if err == nil && resp.IsError() {
		err = fmt.Errorf("status %d", resp.StatusCode())
	}
	duration := time.Since(start)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		err = httpclient.RedactURL(err, op)
		outcome = metrics.OutcomeError
	}
	metrics.RecordExternalCall(serviceName, op, outcome, duration)
	common.LogExternalCall(serviceName, op, duration, err)
	return err
}

// ExtractCaptionURL 取出頁面中第一個字幕軌的 baseUrl，並還原跳脫字元
func ExtractCaptionURL(page string) string {
	m := captionTracks.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.NewReplacer(`\u0026`, "&", `\/`, "/").Replace(m[1])
}

// CaptionJSONURL 要求 json3 格式的字幕
func CaptionJSONURL(trackURL string) string {
	if strings.Contains(trackURL, "?") {
		return trackURL + "&fmt=json3"
	}
	return trackURL + "?fmt=json3"
}

// timedText json3 字幕格式
type timedText struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (t timedText) lines() []string {
	lines := make([]string, 0, len(t.Events))
	for _, ev := range t.Events {
		var line strings.Builder
		for _, seg := range ev.Segs {
			if seg.UTF8 == "\n" || strings.TrimSpace(seg.UTF8) == "" {
				continue
			}
			line.WriteString(strings.TrimSpace(seg.UTF8))
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
