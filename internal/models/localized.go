// internal/models/localized.go
package models

import (
	"encoding/json"
	"strings"
)

// LocalizedText models the backend's duck-typed name fields, which arrive
// either as a plain string or as an {en, ar} object. It is the single place
// the union is handled; downstream code only ever sees resolved strings.
type LocalizedText struct {
	Plain string `json:"-"`
	En    string `json:"en,omitempty"`
	Ar    string `json:"ar,omitempty"`
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = LocalizedText{Plain: plain}
		return nil
	}

	var obj struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = LocalizedText{En: obj.En, Ar: obj.Ar}
	return nil
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.Plain != "" {
		return json.Marshal(t.Plain)
	}
	return json.Marshal(struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	}{En: t.En, Ar: t.Ar})
}

// Resolve applies the uniform display rule: a plain string wins, then the
// trimmed English text, then the trimmed Arabic text, then the fallback.
func (t LocalizedText) Resolve(fallback string) string {
	if s := strings.TrimSpace(t.Plain); s != "" {
		return s
	}
	if s := strings.TrimSpace(t.En); s != "" {
		return s
	}
	if s := strings.TrimSpace(t.Ar); s != "" {
		return s
	}
	return fallback
}

// IsZero reports whether no text is present in any variant.
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.Plain) == "" &&
		strings.TrimSpace(t.En) == "" &&
		strings.TrimSpace(t.Ar) == ""
}

// Text creates a plain-string LocalizedText, mostly for tests and fixtures.
func Text(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

// Bilingual creates an {en, ar} LocalizedText.
func Bilingual(en, ar string) LocalizedText {
	return LocalizedText{En: en, Ar: ar}
}
