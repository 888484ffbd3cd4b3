// Package parser はLLMの自由形式テキスト応答からJSON構造を抽出・補修する
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Schema は呼び出し側が期待するキーの型を宣言する
type Schema struct {
	// Lists はリスト型のキー（欠落時は空リストで補完、非リストは1要素リストに変換）
	Lists []string

	// Strings は文字列型のキー（欠落時は空文字列で補完）
	Strings []string

	// Objects はオブジェクト型のキー（欠落時は空オブジェクトで補完）
	Objects []string
}

// Result は解析結果
// 解析に失敗した場合でもスキーマの全キーが存在し、Errorに理由が入る
type Result struct {
	fields map[string]any

	// Error は構造の解析に失敗した理由（成功時は空）
	Error string
}

var (
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	smartQuoteReplacer   = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// Parse は応答テキストから最初の '{' と最後の '}' の間を切り出してデコードする
func Parse(text string, schema Schema) Result {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return Minimal(schema, "no JSON object found in response")
	}

	raw := text[start : end+1]

	fields, err := decode(raw)
	if err != nil {
		// 軽微な崩れを補修して再試行する
		repaired, repairErr := decode(repair(raw))
		if repairErr != nil {
			return Minimal(schema, fmt.Sprintf("failed to decode JSON: %v", err))
		}
		fields = repaired
	}

	backfill(fields, schema)
	return Result{fields: fields}
}

// Minimal はスキーマの全キーを空値で持ち、errorキーに理由を埋め込んだ結果を返す
func Minimal(schema Schema, reason string) Result {
	fields := make(map[string]any, len(schema.Lists)+len(schema.Strings)+len(schema.Objects)+1)
	backfill(fields, schema)
	fields["error"] = reason
	return Result{fields: fields, Error: reason}
}

func decode(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("decoded JSON is null")
	}
	return fields, nil
}

func repair(raw string) string {
	fixed := smartQuoteReplacer.Replace(raw)
	fixed = trailingCommaPattern.ReplaceAllString(fixed, "$1")
	return fixed
}

func backfill(fields map[string]any, schema Schema) {
	for _, key := range schema.Lists {
		v, ok := fields[key]
		switch {
		case !ok || v == nil:
			fields[key] = []any{}
		default:
			if _, isList := v.([]any); !isList {
				fields[key] = []any{FormatValue(v)}
			}
		}
	}
	for _, key := range schema.Strings {
		if v, ok := fields[key]; !ok || v == nil {
			fields[key] = ""
		}
	}
	for _, key := range schema.Objects {
		v, ok := fields[key]
		if _, isObject := v.(map[string]any); !ok || !isObject {
			fields[key] = map[string]any{}
		}
	}
}

// OK は構造の解析に成功したかを返す
func (r Result) OK() bool {
	return r.Error == ""
}

// Has はキーが存在するかを返す
func (r Result) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Keys は全キーを返す（順序は不定）
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	return keys
}

// Strings はリスト型のキーを文字列のリストとして返す
func (r Result) Strings(key string) []string {
	return StringsOf(r.fields, key)
}

// String は文字列型のキーを返す
func (r Result) String(key, def string) string {
	return StringOf(r.fields, key, def)
}

// Float は数値型のキーを返す
func (r Result) Float(key string, def float64) float64 {
	return FloatOf(r.fields, key, def)
}

// Object はオブジェクト型のキーを返す
func (r Result) Object(key string) map[string]any {
	return ObjectOf(r.fields, key)
}

// Objects はリスト型のキーのうちオブジェクトの要素だけを返す
func (r Result) Objects(key string) []map[string]any {
	return ObjectsOf(r.fields, key)
}

// Items はリスト型のキーの要素をデコードしたまま返す
func (r Result) Items(key string) []any {
	items, _ := r.fields[key].([]any)
	return items
}
