package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	if msg := T("required", nil); msg != "required field missing" {
		t.Fatalf("unexpected default message: %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("required", nil); msg == "required field missing" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_ExpectedPlaceholder(t *testing.T) {
	got := T("invalid_type", map[string]string{"expected": "number", "got": "string"})
	if got != "invalid type (expected number, got string)" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code echo, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if got := T("required", nil); got != "X:required" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("required", nil); got != "required field missing" {
		t.Fatalf("reset failed: %q", got)
	}
}
