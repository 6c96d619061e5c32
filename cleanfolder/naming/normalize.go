// Package naming rewrites file and folder names into an ASCII-safe form.
package naming

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// transliteration maps Cyrillic letters (Russian alphabet plus Є) to Latin.
var transliteration = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'є': "e", 'ю': "yu", 'я': "ya",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "Yo", 'Ж': "Zh", 'З': "Z", 'И': "I",
	'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch",
	'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "",
	'Э': "E", 'Є': "E", 'Ю': "Yu", 'Я': "Ya",
}

// Normalize transliterates text into ASCII letters, digits and underscores.
//
// Table letters are replaced by their Latin spelling, ASCII letters and
// digits pass through and every other rune becomes a single underscore.
// Input is composed to NFC first so decomposed letters such as е+U+0308
// resolve to ё. Distinct inputs may produce the same output.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFC.String(text) {
		if latin, ok := transliteration[r]; ok {
			b.WriteString(latin)
			continue
		}
		if isASCIIAlnum(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// IsNormalized reports whether name already consists solely of ASCII
// letters, digits and underscores.
func IsNormalized(name string) bool {
	for _, r := range name {
		if r != '_' && !isASCIIAlnum(r) {
			return false
		}
	}
	return true
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
