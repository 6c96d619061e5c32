package naming

import "strings"

// SplitName splits a single path element at its last dot.
//
// The extension keeps its leading dot. Leading dots belong to the base, so
// ".bashrc" has no extension while ".config.json" splits into ".config" and
// ".json".
func SplitName(name string) (base, ext string) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, ""
	}
	if strings.TrimLeft(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}

// Extension returns the text after the last dot of name, without the dot.
// It is empty when SplitName finds no extension.
func Extension(name string) string {
	_, ext := SplitName(name)
	return strings.TrimPrefix(ext, ".")
}

// NormalizeName normalizes the base of name and keeps its extension.
func NormalizeName(name string) string {
	base, ext := SplitName(name)
	return Normalize(base) + ext
}
