package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			if data["expected"] != "" {
				return "型が不正です (期待: " + data["expected"] + ", 実際: " + data["actual"] + ")"
			}
			return "型が不正です"
		case "invalid_enum":
			return "許可されていない値です"
		case "union_no_match":
			return "いずれの候補にも一致しません"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "duplicate_key":
			return "キーが重複しています"
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		case "business_rule":
			return "ルール違反です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if data["expected"] != "" {
				return "invalid type: expected " + data["expected"] + ", got " + data["actual"]
			}
			return "invalid type"
		case "invalid_enum":
			if data["actual"] != "" {
				return "invalid enum value '" + data["actual"] + "'"
			}
			return "invalid enum value"
		case "union_no_match":
			return "no union member matched"
		case "required":
			return "required property missing"
		case "unknown_key":
			if data["key"] != "" {
				return "unknown key '" + data["key"] + "'"
			}
			return "unknown key"
		case "duplicate_key":
			return "duplicate key"
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		case "business_rule":
			return "rule violated"
		}
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
