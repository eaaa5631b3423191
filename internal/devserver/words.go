package devserver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Languages the server can start games in.
var Languages = []string{"en", "es", "fr"}

// usage is one example sentence; {word} marks the secret word.
type usage struct {
	ID       int
	Language string
	Text     string
	Secret   string
	Source   string
}

var usages = []usage{
	{1, "en", "The {word} barked at the postman all morning.", "dog", "Dev corpus"},
	{2, "en", "She poured the {word} into a chipped blue mug.", "coffee", "Dev corpus"},
	{3, "en", "A {word} of geese crossed the grey sky.", "skein", "Dev corpus"},
	{4, "es", "El {word} ladró toda la noche.", "perro", "Dev corpus"},
	{5, "es", "Compramos pan en la {word} de la esquina.", "panadería", "Dev corpus"},
	{6, "fr", "Le {word} dort sur le canapé.", "chat", "Dev corpus"},
	{7, "fr", "Nous avons mangé une {word} au citron.", "tarte", "Dev corpus"},
}

func usagesFor(lang string) []usage {
	var out []usage
	for _, u := range usages {
		if u.Language == lang {
			out = append(out, u)
		}
	}
	return out
}

func usageByID(id int) (usage, bool) {
	for _, u := range usages {
		if u.ID == id {
			return u, true
		}
	}
	return usage{}, false
}

// blanked is the sentence with the secret word hidden.
func (u usage) blanked() string {
	return strings.ReplaceAll(u.Text, "{word}", strings.Repeat("_", utf8.RuneCountInString(u.Secret)))
}

// fold lowercases s and strips accents so "é" matches a guess of "e".
// Chained transformers keep state, so each call builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// reveal shows the letters of secret whose folded form has been guessed.
func reveal(secret, guessed string) string {
	var b strings.Builder
	for _, r := range secret {
		if strings.Contains(guessed, fold(string(r))) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
