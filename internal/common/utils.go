package common

import "strings"

// CutThrough returns s up to and including the first occurrence of sep.
// If sep is absent, s is returned with sep appended.
func CutThrough(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before + sep
}
