package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message; placeholders are
// written as {field}, {got}, {expected}, {index}, {want}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"required":        "field {field} is required but was not supplied",
		"invalid_type":    "field {field} got value of unexpected type {got}, expected: {expected}",
		"invalid_element": "field {field} expected element {index} to be {expected}, got type {got}",
		"not_list":        "field {field} got value of unexpected type {got}, expected a list of {expected}",
		"not_sequence":    "field {field} got value of unexpected type {got}, expected a tuple of types ({expected})",
		"arity":           "field {field} expected a tuple of length {want}, got tuple of length {got}",
		"unknown_key":     "unknown key {field}",
		"schema":          "invalid schema declaration: {detail}",
		"schema_mismatch": "objects of {got} and {expected} cannot be compared",
		"parse_error":     "parse error: {detail}",
		"too_deep":        "input nesting exceeds {want} levels",
		"truncated":       "input exceeds {want} bytes",
		"duplicate_key":   "key {field} appears more than once in the same object",
	},
	"ja": {
		"required":        "必須フィールド {field} が指定されていません",
		"invalid_type":    "フィールド {field} の型 {got} は不正です (期待: {expected})",
		"invalid_element": "フィールド {field} の要素 {index} は {expected} であるべきですが {got} です",
		"not_list":        "フィールド {field} の型 {got} は不正です ({expected} のリストが必要です)",
		"not_sequence":    "フィールド {field} の型 {got} は不正です (型 ({expected}) のタプルが必要です)",
		"arity":           "フィールド {field} には長さ {want} のタプルが必要ですが長さは {got} です",
		"unknown_key":     "未知のキーです: {field}",
		"schema":          "スキーマ定義が不正です: {detail}",
		"schema_mismatch": "{got} と {expected} のオブジェクトは比較できません",
		"parse_error":     "解析エラー: {detail}",
		"too_deep":        "入力のネストが {want} を超えています",
		"truncated":       "入力が {want} バイトを超えています",
		"duplicate_key":   "キー {field} が同じオブジェクト内で重複しています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
