package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data carries optional placeholders such as "expected", "got" or
// "discriminator".
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型が不正です"
		case "required":
			msg = "必須フィールドがありません"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "duplicate_registration":
			msg = "判別子はすでに登録されています"
		case "invalid_shape":
			msg = "オブジェクトが必要です"
		case "out_of_range":
			msg = "範囲外の値です"
		case "parse_error":
			msg = "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "invalid type"
		case "required":
			msg = "required field missing"
		case "duplicate_key":
			msg = "duplicate key"
		case "duplicate_registration":
			msg = "discriminator already registered"
		case "invalid_shape":
			msg = "expected an object"
		case "out_of_range":
			msg = "value out of range"
		case "parse_error":
			msg = "parse error"
		}
	}
	if msg == "" {
		return code
	}
	if exp := data["expected"]; exp != "" {
		msg += " (expected " + exp
		if got := data["got"]; got != "" {
			msg += ", got " + got
		}
		msg += ")"
	}
	return msg
}

var currentTranslator atomic.Value // holds Translator

func init() { currentTranslator.Store(translatorBox{dictTranslator{lang: "en"}}) }

// translatorBox keeps the stored concrete type stable for atomic.Value.
type translatorBox struct{ Translator }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(translatorBox{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation. nil restores the
// English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(translatorBox{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().(translatorBox).Message(code, data)
}
