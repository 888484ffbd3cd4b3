package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatValue はデコード済みのJSON値を文字列に変換する
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// StringsOf はmの値を文字列リストとして返す
// 空白のみの要素は除外し、単一値は1要素のリストにする
func StringsOf(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok || v == nil {
		return []string{}
	}

	items, isList := v.([]any)
	if !isList {
		items = []any{v}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(FormatValue(item))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StringOf はmの値を文字列として返す（空ならdef）
func StringOf(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	s := strings.TrimSpace(FormatValue(v))
	if s == "" {
		return def
	}
	return s
}

// FloatOf はmの値を数値として返す（数値文字列も受け付ける）
func FloatOf(m map[string]any, key string, def float64) float64 {
	switch x := m[key].(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// BoolOf はmの値を真偽値として返す
func BoolOf(m map[string]any, key string, def bool) bool {
	switch x := m[key].(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// ObjectOf はmの値をオブジェクトとして返す（存在しなければ空）
func ObjectOf(m map[string]any, key string) map[string]any {
	if obj, ok := m[key].(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

// ObjectsOf はmのリスト値のうちオブジェクトの要素を返す
func ObjectsOf(m map[string]any, key string) []map[string]any {
	items, ok := m[key].([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// StringMapOf はmのオブジェクト値を文字列マップとして返す
func StringMapOf(m map[string]any, key string) map[string]string {
	obj := ObjectOf(m, key)
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = FormatValue(v)
	}
	return out
}
