package domain

import "strings"

// Language is a supported UI language code.
type Language string

const (
	LangEnglish  Language = "en"
	LangJapanese Language = "jp"
	LangChinese  Language = "zh"
	LangSpanish  Language = "es"
)

func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case LangEnglish, LangJapanese, LangChinese, LangSpanish:
		return l, nil
	}
	return "", Invalid("language", "must be one of en, jp, zh, es")
}

// LanguageFromLocale maps a BCP 47 base language to a supported language.
// Japanese uses the app's "jp" code rather than "ja".
func LanguageFromLocale(base string) Language {
	switch strings.ToLower(base) {
	case "ja":
		return LangJapanese
	case "zh":
		return LangChinese
	case "es":
		return LangSpanish
	default:
		return LangEnglish
	}
}
