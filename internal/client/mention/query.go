package mention

import "regexp"

// Query is an open mention: the word typed after an @ that ends at the
// caret. Offsets count runes.
type Query struct {
	RawText string
	Caret   int
	Text    string
	Anchor  int
}

// ExtractQuery finds the @word that ends exactly at caret. The word may be
// empty, which happens right after the user types @.
func ExtractQuery(text string, caret int) (Query, bool) {
	r := []rune(text)
	caret = clamp(caret, 0, len(r))

	i := caret
	for i > 0 && isWord(r[i-1]) {
		i--
	}
	if i == 0 || r[i-1] != '@' {
		return Query{}, false
	}
	return Query{
		RawText: text,
		Caret:   caret,
		Text:    string(r[i:caret]),
		Anchor:  i - 1,
	}, true
}

// Splice replaces the query span [Anchor, Caret) of q.RawText with
// "@username " and returns the new text and caret. A space already
// following the caret is reused.
func Splice(q Query, username string) (string, int) {
	r := []rune(q.RawText)
	before := string(r[:q.Anchor])
	after := string(r[q.Caret:])

	insert := "@" + username
	if len(after) == 0 || after[0] != ' ' {
		insert += " "
	}
	text := before + insert + after
	caret := q.Anchor + 1 + len([]rune(username)) + 1
	return text, caret
}

var mentionRe = regexp.MustCompile(`@(\w+)`)

// Mentions returns the distinct usernames mentioned in text, in order of
// first appearance.
func Mentions(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func isWord(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
