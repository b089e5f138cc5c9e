package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides values for the {placeholders} in the message (for example,
// "name" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var _messages = map[string]map[string]string{
	"en": {
		"invalid_type":             "invalid option type, expected {expected}",
		"unknown_command":          "unknown command \"{name}\"",
		"unknown_subcommand":       "unknown subcommand \"{name}\"",
		"unknown_subcommand_group": "unknown subcommand group \"{name}\"",
		"unknown_option":           "unknown option \"{name}\"",
		"missing_option":           "missing option \"{name}\"",
		"name_invalid":             "name must be 1-32 lowercase letters, digits, '-' or '_'",
		"name_duplicate":           "duplicate name \"{name}\"",
		"description_invalid":      "description must be 1-100 characters",
		"too_many_children":        "more than 25 entries",
		"kind_invalid":             "invalid option kind",
		"nesting_too_deep":         "sub-commands cannot be nested more than one level",
		"mixed_body":               "a command holds either options or sub-commands, not both",
		"declaration_invalid":      "malformed declaration",
	},
	"ja": {
		"invalid_type":             "オプションの型が不正です(期待値: {expected})",
		"unknown_command":          "未知のコマンドです: \"{name}\"",
		"unknown_subcommand":       "未知のサブコマンドです: \"{name}\"",
		"unknown_subcommand_group": "未知のサブコマンドグループです: \"{name}\"",
		"unknown_option":           "未知のオプションです: \"{name}\"",
		"missing_option":           "必須オプションが不足しています: \"{name}\"",
		"name_invalid":             "名前は1〜32文字の小文字・数字・'-'・'_'である必要があります",
		"name_duplicate":           "名前が重複しています: \"{name}\"",
		"description_invalid":      "説明は1〜100文字である必要があります",
		"too_many_children":        "要素が25個を超えています",
		"kind_invalid":             "オプションの種類が不正です",
		"nesting_too_deep":         "サブコマンドは1段階までしか入れ子にできません",
		"mixed_body":               "コマンドはオプションかサブコマンドのどちらか一方のみを持てます",
		"declaration_invalid":      "宣言が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := _messages[t.lang][code]
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
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
