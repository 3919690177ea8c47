package passage

// IsWordChar reports whether r belongs to a word. Word characters are
// ASCII letters and digits, the Latin-1 Supplement and Latin Extended-A/B
// letters (U+00C0 through U+024F, minus the multiplication and division
// signs), hyphen, and both apostrophe forms. Everything else, whitespace
// and punctuation included, separates words.
func IsWordChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 'À' && r <= 'ɏ':
		return r != '×' && r != '÷'
	case r == '-' || r == '\'' || r == '’':
		return true
	default:
		return false
	}
}

// Expand widens [start, end) to the enclosing word boundaries in t. The
// result never shrinks the input, and expanding a second time changes
// nothing. Out-of-range bounds are clamped to the text first.
func Expand(t Text, start, end int) (int, int) {
	n := t.Len()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	for start > 0 && IsWordChar(t.At(start-1)) {
		start--
	}
	for end < n && IsWordChar(t.At(end)) {
		end++
	}
	return start, end
}
