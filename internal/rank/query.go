// Package rank parses queries and orders discovery results.
package rank

import "strings"

// Query is a parsed search query. Lang tokens and the remote flag are
// filters; Text is what remains for fuzzy matching.
type Query struct {
	Text       string
	Lang       []string
	RemoteOnly bool
}

// Parse splits a raw query into filters and residual free text. Language
// filters are written lang:<token>; "--remote" restricts results to entries
// with a known remote URL. Both are removed from the residual text.
func Parse(raw string) Query {
	var q Query
	var rest []string
	for _, tok := range strings.Fields(raw) {
		switch {
		case strings.EqualFold(tok, "--remote"):
			q.RemoteOnly = true
		case len(tok) > len("lang:") && strings.HasPrefix(strings.ToLower(tok), "lang:"):
			q.Lang = append(q.Lang, tok[len("lang:"):])
		default:
			rest = append(rest, tok)
		}
	}
	q.Text = strings.Join(rest, " ")
	return q
}
