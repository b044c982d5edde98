package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxSteps 回傳步驟上限
	MaxSteps = 50
	// MinStepChars 緩衝累積到這個長度就成為一個步驟
	MinStepChars = 15
	// MinKeepChars 短於此長度的步驟丟棄
	MinKeepChars = 5
	// MinDescriptionChars 說明欄每行最少長度
	MinDescriptionChars = 10
)

var (
	leadingMarker = regexp.MustCompile(`^\s*(?:\d+[.)\s]+|[-*•·▶]+\s*)`)
	inlineNumber  = regexp.MustCompile(`\s*\d+[.)]\s*`)
)

// sentenceEnd 句尾標記：標點與韓文常見的終結語尾
func sentenceEnd(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', '요', '다':
		return true
	}
	return false
}

// SegmentCaptions 將逐行字幕合併成步驟
//
// 依序累積到緩衝，長度達 15 字或以句尾標記結束時輸出一個步驟，
// 最後輸出剩餘內容。短於 5 字的步驟丟棄，最多 50 個。長度以字元（rune）計。
func SegmentCaptions(lines []string) []string {
	steps := make([]string, 0)
	var buf strings.Builder

	flush := func() {
		step := strings.TrimSpace(buf.String())
		buf.Reset()
		if utf8.RuneCountInString(step) >= MinKeepChars && len(steps) < MaxSteps {
			steps = append(steps, step)
		}
	}

	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(t)
		if utf8.RuneCountInString(buf.String()) >= MinStepChars || sentenceEnd(t) {
			flush()
		}
		if len(steps) == MaxSteps {
			return steps
		}
	}
	if buf.Len() > 0 {
		flush()
	}
	return steps
}

// SegmentDescription 從影片說明欄取出步驟
//
// 先逐行處理：去掉開頭的編號或項目符號，保留 10 字以上且不是網址的行。
// 都沒有時改以文中的編號切分整段文字。
func SegmentDescription(text string) []string {
	normalized := strings.TrimSpace(strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text))
	steps := make([]string, 0)
	if normalized == "" {
		return steps
	}

	for _, line := range strings.Split(normalized, "\n") {
		t := strings.TrimSpace(leadingMarker.ReplaceAllString(line, ""))
		if keepDescriptionLine(t) {
			steps = append(steps, t)
			if len(steps) == MaxSteps {
				return steps
			}
		}
	}
	if len(steps) > 0 || utf8.RuneCountInString(normalized) < MinDescriptionChars {
		return steps
	}

	for _, part := range inlineNumber.Split(normalized, -1) {
		t := strings.TrimSpace(part)
		if keepDescriptionLine(t) {
			steps = append(steps, t)
			if len(steps) == MaxSteps {
				break
			}
		}
	}
	return steps
}

func keepDescriptionLine(s string) bool {
	return utf8.RuneCountInString(s) >= MinDescriptionChars && !strings.HasPrefix(s, "http")
}
