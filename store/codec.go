package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"habit-tracker/date"
	"habit-tracker/model"
)

var ErrMalformedData = errors.New("malformed habit data")

// record 持久化格式中的一条习惯
type record struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Streak      int             `json:"streak"`
	Completions map[string]bool `json:"completions"`
}

// looseRecord 读取时使用：streak 被忽略，完成标记的值类型不做限制
type looseRecord struct {
	Name        string                     `json:"name"`
	Category    string                     `json:"category"`
	Streak      json.RawMessage            `json:"streak"`
	Completions map[string]json.RawMessage `json:"completions"`
}

// Encode 将习惯集合序列化为持久化格式(JSON 数组)
func Encode(habits []*model.Habit) ([]byte, error) {
	records := make([]record, 0, len(habits))
	for _, h := range habits {
		completions := make(map[string]bool, h.CompletionCount())
		for _, k := range h.Completions() {
			completions[k.String()] = true
		}
		records = append(records, record{
			Name:        h.Name,
			Category:    h.Category,
			Streak:      h.Streak(),
			Completions: completions,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode habits: %w", err)
	}
	return data, nil
}

// Decode 解析持久化数据。
// 输入为空或整体无法解析时返回空集合；单条记录有问题时跳过该条。
// 被忽略的内容通过 problems 返回，供调用方记录日志，不会作为错误中断加载。
func Decode(raw []byte, today date.Key) (habits []*model.Habit, problems []error) {
	habits = []*model.Habit{}

	if len(bytes.TrimSpace(raw)) == 0 {
		return habits, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return habits, []error{fmt.Errorf("%w: %v", ErrMalformedData, err)}
	}

	for i, item := range items {
		var rec looseRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			problems = append(problems, fmt.Errorf("%w: record %d: %v", ErrMalformedData, i, err))
			continue
		}
		if rec.Completions == nil && !isObject(item) {
			problems = append(problems, fmt.Errorf("%w: record %d is not an object", ErrMalformedData, i))
			continue
		}

		name := strings.TrimSpace(rec.Name)
		category := strings.TrimSpace(rec.Category)
		if name == "" || category == "" {
			problems = append(problems, fmt.Errorf("%w: record %d has empty name or category", ErrMalformedData, i))
			continue
		}

		completions := date.NewSet()
		for key, marker := range rec.Completions {
			k, err := date.Parse(key)
			if err != nil {
				problems = append(problems, fmt.Errorf("%w: record %d: %v", ErrMalformedData, i, err))
				continue
			}
			if truthy(marker) {
				completions.Add(k)
			}
		}

		habits = append(habits, model.RestoreHabit(name, category, completions, today))
	}

	return habits, problems
}

func isObject(item json.RawMessage) bool {
	trimmed := bytes.TrimSpace(item)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// truthy 判断完成标记是否表示"已完成"：false、0、""、null 视为未完成
func truthy(marker json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(marker, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
