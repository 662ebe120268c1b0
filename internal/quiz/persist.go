package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/store"
)

// Persisted keys. Each holds one JSON document.
const (
	KeySelection = "selectedCategories"
	KeyQuestions = "questions"
	KeyHistory   = "shownQuestions"
	KeySelected  = "selectedQuestions"
)

// loadJSON decodes the document stored under key. A missing or undecodable
// document yields found=false; only storage failures are returned as errors.
func loadJSON[T any](ctx context.Context, kv store.KV, log *zap.Logger, key string) (value T, found bool, err error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return value, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return value, false, nil
	}
	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Warn("ignoring unreadable persisted state", zap.String("key", key), zap.Error(err))
		return value, false, nil
	}
	return decoded, true, nil
}

func encodeJSON(key string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return string(data), nil
}
