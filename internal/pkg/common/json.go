package common

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ParseJSONBytes 解析 JSON 位元組切片到結構體，拒絕尾端多餘資料
func ParseJSONBytes(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}
