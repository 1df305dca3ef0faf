package value

import (
	"fmt"
	"strings"

	"github.com/hollowbranch/tecl/internal/token"
)

// ParseList parses a list-formatted string into a sequence of Values,
// per spec.md 4.3. List whitespace is space, tab, CR, LF, vertical tab,
// or form feed; items are separated by one or more such characters.
func ParseList(s string) ([]Value, error) {
	c := token.New(s)
	var items []Value
	for {
		c.SkipWhile(token.IsListWhitespace)
		if c.AtEnd() {
			return items, nil
		}
		item, err := parseListItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, FromString(item))
	}
}

func parseListItem(c *token.Cursor) (string, error) {
	switch c.Peek() {
	case '{':
		return parseBracedItem(c)
	case '"':
		return parseQuotedItem(c)
	default:
		return parseBareItem(c), nil
	}
}

func parseBracedItem(c *token.Cursor) (string, error) {
	c.Next() // consume '{'
	depth := 1
	var sb strings.Builder
	for {
		r := c.Next()
		if r == token.EOF {
			return "", fmt.Errorf("unmatched open brace in list")
		}
		if r == '\\' {
			sb.WriteRune('\\')
			if nr := c.Next(); nr != token.EOF {
				sb.WriteRune(nr)
			}
			continue
		}
		if r == '{' {
			depth++
			sb.WriteRune(r)
			continue
		}
		if r == '}' {
			depth--
			if depth == 0 {
				break
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(r)
	}
	if !c.AtEnd() && !token.IsListWhitespace(c.Peek()) {
		return "", fmt.Errorf("extra characters after close-brace")
	}
	return unescapeBraceBody(sb.String()), nil
}

// unescapeBraceBody keeps backslash-escaped braces verbatim (they were
// already copied through as "\X" by parseBracedItem) rather than
// interpreting other backslash escapes: spec.md 4.3 only says "\<any>
// inside is copied verbatim" for braced items.
func unescapeBraceBody(s string) string {
	return s
}

func parseQuotedItem(c *token.Cursor) (string, error) {
	c.Next() // consume opening quote
	var sb strings.Builder
	for {
		r := c.Peek()
		if r == token.EOF {
			return "", fmt.Errorf("unmatched open quote in list")
		}
		if r == '"' {
			c.Next()
			break
		}
		if r == '\\' {
			c.Next()
			sb.WriteRune(c.BackslashSubst())
			continue
		}
		sb.WriteRune(c.Next())
	}
	if !c.AtEnd() && !token.IsListWhitespace(c.Peek()) {
		return "", fmt.Errorf("extra characters after close-quote")
	}
	return sb.String(), nil
}

func parseBareItem(c *token.Cursor) string {
	var sb strings.Builder
	for {
		r := c.Peek()
		if r == token.EOF || token.IsListWhitespace(r) {
			break
		}
		if r == '\\' {
			c.Next()
			sb.WriteRune(c.BackslashSubst())
			continue
		}
		sb.WriteRune(c.Next())
	}
	return sb.String()
}

// FormatList renders a sequence of Values as a list-formatted string,
// choosing the minimum-overhead representation for each element per
// spec.md 4.3, satisfying the round-trip law ParseList(FormatList(L))
// == L elementwise.
func FormatList(items []Value) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = formatListElement(v.AsString(), i == 0)
	}
	return strings.Join(parts, " ")
}

func formatListElement(s string, isFirst bool) string {
	if s == "" {
		return "{}"
	}
	commentRisk := isFirst && s[0] == '#'
	if !commentRisk && canBeBare(s) {
		return s
	}
	if braced, ok := braceWrap(s); ok {
		return braced
	}
	return escapeWrap(s)
}

func canBeBare(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '{' || s[0] == '"' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f', ';', '$', '[', ']':
			return false
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		case '\\':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
				continue
			}
			return false
		}
	}
	return depth == 0
}

// braceWrap reports whether s can be rendered as "{s}" - true whenever
// its braces balance and it has no trailing backslash that would escape
// the closing brace.
func braceWrap(s string) (string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return "", false
			}
		case '\\':
			i++ // skip escaped character, it cannot unbalance a brace
		}
	}
	if depth != 0 {
		return "", false
	}
	if strings.HasSuffix(s, "\\") && !strings.HasSuffix(s, "\\\\") {
		return "", false
	}
	return "{" + s + "}", true
}

func escapeWrap(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r', '\n', '\v', '\f', ';', '$', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
