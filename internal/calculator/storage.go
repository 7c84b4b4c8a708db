package calculator

import (
	"context"
	"encoding/json"
	"fmt"
)

// Persisted keys.
const (
	// HistoryKey holds the JSON array of HistoryEntry, newest first.
	HistoryKey = "calcHistory"

	// InputKey holds the raw current input string.
	InputKey = "calcInput"
)

// Storage is a durable string-keyed, string-valued store.
//
// Get reports ok=false for a missing key. Delete of a missing key is not an
// error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// EncodeHistory serializes history as a JSON array. A nil or empty history
// encodes as "[]".
func EncodeHistory(history []HistoryEntry) (string, error) {
	if history == nil {
		history = []HistoryEntry{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(data), nil
}

// DecodeHistory parses a value written by EncodeHistory. Entries written
// with the short field names "exp" and "res" are also accepted.
func DecodeHistory(data string) ([]HistoryEntry, error) {
	if data == "" {
		return nil, nil
	}
	var history []HistoryEntry
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

// UnmarshalJSON accepts both the current and the short field names.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         int64   `json:"id"`
		Expression *string `json:"expression"`
		Result     *string `json:"result"`
		Exp        *string `json:"exp"`
		Res        *string `json:"res"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entry := HistoryEntry{ID: raw.ID}
	switch {
	case raw.Expression != nil:
		entry.Expression = *raw.Expression
	case raw.Exp != nil:
		entry.Expression = *raw.Exp
	}
	switch {
	case raw.Result != nil:
		entry.Result = *raw.Result
	case raw.Res != nil:
		entry.Result = *raw.Res
	}
	*e = entry
	return nil
}
