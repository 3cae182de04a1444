package pipeline

import "unicode"

// Language is the answer language selected per question.
type Language int

const (
	LanguageEnglish Language = iota
	LanguageBengali
)

func (l Language) String() string {
	if l == LanguageBengali {
		return "bengali"
	}
	return "english"
}

// Fixed refusal texts used when the model cannot answer from the provided
// context. The generation prompt instructs the model to emit one of these
// verbatim, matched to the question's language.
const (
	RefusalBengali = "দুঃখিত, উত্তর দেওয়ার মতো পর্যাপ্ত তথ্য আমার কাছে নেই।"
	RefusalEnglish = "Sorry, I do not have enough information to answer that."
)

// DetectLanguage classifies the question as Bengali if it contains any
// character from the Bengali script, and English otherwise.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if unicode.Is(unicode.Bengali, r) {
			return LanguageBengali
		}
	}
	return LanguageEnglish
}

// Refusal returns the refusal text for the language.
func Refusal(lang Language) string {
	if lang == LanguageBengali {
		return RefusalBengali
	}
	return RefusalEnglish
}
