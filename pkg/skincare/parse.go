package skincare

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTokenLength is the shortest token ParseIngredientTokens keeps. Shorter
// fragments ("a", "e.", stray OCR marks) are never ingredient names.
const MinTokenLength = 3

// Only these two labels are stripped; the first one found wins.
var ingredientLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ingredients:`),
	regexp.MustCompile(`(?i)inci:`),
}

func isIngredientDelimiter(r rune) bool {
	switch r {
	case ',', ';', '\n', '/', '.':
		return true
	}
	return false
}

// ParseIngredientTokens splits a free-text or OCR ingredient list into
// candidate ingredient names. Casing, order and duplicates are preserved.
func ParseIngredientTokens(text string) []string {
	text = stripIngredientLabel(text)

	tokens := []string{}
	for _, field := range strings.FieldsFunc(text, isIngredientDelimiter) {
		token := strings.TrimFunc(field, unicode.IsSpace)
		if utf8.RuneCountInString(token) < MinTokenLength {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func stripIngredientLabel(text string) string {
	for _, label := range ingredientLabels {
		if loc := label.FindStringIndex(text); loc != nil {
			return text[loc[1]:]
		}
	}
	return text
}
