package layout

import "sync/atomic"

// TokenSource hands out run tokens. Each Next invalidates every token
// issued before it, so the most recently started run always wins.
type TokenSource struct {
	gen atomic.Uint64
}

// Next issues a fresh token and invalidates all earlier ones.
func (s *TokenSource) Next() *Token {
	return &Token{src: s, gen: s.gen.Add(1)}
}

// Invalidate cancels every outstanding token without issuing a new one.
func (s *TokenSource) Invalidate() {
	s.gen.Add(1)
}

// Token identifies one synchronization run. Runs poll Cancelled between
// steps and abandon their remaining work once superseded.
type Token struct {
	src *TokenSource
	gen uint64
}

// Cancelled reports whether a newer token has been issued.
func (t *Token) Cancelled() bool {
	return t.src.gen.Load() != t.gen
}
