package markup

// TrimBalanced returns the longest prefix of s in which the parenthesis
// depth never drops below zero. A stray ")" typed after a nested
// parenthetical is cut off together with everything following it.
func TrimBalanced(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return s[:i]
			}
		}
	}
	return s
}
