// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package features

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed list literal in a genres cell. It never
// leaves this package: CleanGenres falls back to the raw value.
type ParseError struct {
	Input  string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse list literal at offset %d: %s", e.Offset, e.Reason)
}

// CleanGenres normalizes a genres cell to "A, B, C".
//
// A list or tuple literal such as "['Action', 'Drama']" is parsed into its
// items. Any other value is treated as comma-separated. A value that looks
// like a literal but fails to parse is returned unchanged.
func CleanGenres(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if looksLikeListLiteral(trimmed) {
		items, err := parseListLiteral(trimmed)
		if err != nil {
			return raw
		}
		return strings.Join(items, ", ")
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return strings.Join(items, ", ")
}

func looksLikeListLiteral(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(")
}

// parseListLiteral parses a flat list or tuple of quoted strings and bare
// scalars. Nested containers are rejected.
func parseListLiteral(s string) ([]string, error) {
	p := &literalParser{src: s}
	return p.parse()
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) fail(reason string) error {
	return &ParseError{Input: p.src, Offset: p.pos, Reason: reason}
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) parse() ([]string, error) {
	open := p.src[p.pos]
	closeCh := byte(']')
	if open == '(' {
		closeCh = ')'
	}
	p.pos++

	var items []string
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.fail("unterminated list")
		}
		if p.src[p.pos] == closeCh {
			p.pos++
			break
		}

		item, err := p.item(closeCh)
		if err != nil {
			return nil, err
		}
		items = append(items, strings.TrimSpace(item))

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.fail("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closeCh:
			// loop consumes it
		default:
			return nil, p.fail(fmt.Sprintf("unexpected %q", p.src[p.pos]))
		}
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.fail("trailing characters after list")
	}
	return items, nil
}

func (p *literalParser) item(closeCh byte) (string, error) {
	switch c := p.src[p.pos]; c {
	case '\'', '"':
		return p.quoted(c)
	case '[', '(', '{':
		return "", p.fail("nested containers are not supported")
	}

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' && p.src[p.pos] != closeCh {
		p.pos++
	}
	bare := strings.TrimSpace(p.src[start:p.pos])
	if bare == "" || strings.ContainsAny(bare, "'\" \t") {
		p.pos = start
		return "", p.fail("invalid bare value")
	}
	return bare, nil
}

func (p *literalParser) quoted(quote byte) (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			b.WriteByte(unescape(p.src[p.pos+1]))
			p.pos += 2
		case c == quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail("unterminated string")
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}
