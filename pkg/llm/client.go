package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const extractSystemPrompt = `あなたは、SNSのグルメ投稿のテキストから店舗情報をJSON形式で抽出する専門家です。` +
	`抽出する項目は、placeName (店名) と address (住所) の2つです。` +
	`情報がない場合は、値をnullとしてください。回答はJSONオブジェクトのみとし、前後の説明は不要です。` +
	`JSONスキーマ: {"placeName": "...", "address": "..."}`

// PlaceInfo is the structured answer pulled out of free text. Either field
// may be nil when the model found nothing.
type PlaceInfo struct {
	PlaceName *string `json:"placeName"`
	Address   *string `json:"address"`
}

// Extractor is one inference provider. A non-nil error means this call
// produced no usable answer; rate limiting is reported as a wrapped
// ErrRateLimited so callers can decide to retry.
type Extractor interface {
	Extract(ctx context.Context, text string) (*PlaceInfo, error)
}

// ErrRateLimited marks a provider-side rate limit. It is the only error
// class worth retrying.
var ErrRateLimited = errors.New("inference rate limited")

func parsePlaceInfo(content string) (*PlaceInfo, error) {
	content = cleanJSONResponse(content)

	var info PlaceInfo
	if err := json.Unmarshal([]byte(content), &info); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}
	return &info, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
