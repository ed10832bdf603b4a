package quiz

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TargetLanguagePlaceholder appears in question titles and is replaced with
// the learner's language once it is known.
const TargetLanguagePlaceholder = "[Target Language]"

const (
	genericTargetLanguage = "your target language"
	nativeFriendsPhrase   = TargetLanguagePlaceholder + " native speaker friends"
)

// DisplayLanguage returns the display name for a language code. Unknown codes
// are capitalized.
func DisplayLanguage(code string) string {
	if code == "" {
		return ""
	}
	if q, ok := Lookup(QLanguageSelection); ok {
		for _, o := range q.Languages {
			if o.ID == code {
				return o.Text
			}
		}
	}
	r, size := utf8.DecodeRuneInString(code)
	return string(unicode.ToUpper(r)) + code[size:]
}

// Display returns the language name to show the learner. A custom language
// wins when "other" was selected.
func (s LanguageSelection) Display() string {
	if s.Language == LanguageOther && strings.TrimSpace(s.CustomLanguage) != "" {
		return strings.TrimSpace(s.CustomLanguage)
	}
	return DisplayLanguage(s.Language)
}

// ReplaceTargetLanguage fills the target-language placeholder in text.
// "[Target Language] native speaker friends" becomes "<Language> friends" for
// a listed language and "native speaker friends" otherwise.
func ReplaceTargetLanguage(text string, sel LanguageSelection) string {
	if strings.Contains(text, nativeFriendsPhrase) {
		repl := "native speaker friends"
		if sel.Language != "" && sel.Language != LanguageOther {
			repl = DisplayLanguage(sel.Language) + " friends"
		}
		text = strings.ReplaceAll(text, nativeFriendsPhrase, repl)
	}
	name := sel.Display()
	if name == "" {
		name = genericTargetLanguage
	}
	return strings.ReplaceAll(text, TargetLanguagePlaceholder, name)
}
