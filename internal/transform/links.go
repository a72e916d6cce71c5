package transform

import (
	"strings"

	"github.com/starford/vedacontent/internal/attr"
)

// AddBasePath returns a copy of v where root-relative path tokens inside
// every string (map values and list elements) are prefixed with basePath.
// An empty basePath returns v unchanged.
func AddBasePath(v attr.Value, basePath string) attr.Value {
	if basePath == "" {
		return v
	}
	return addBasePath(v, basePath)
}

func addBasePath(v attr.Value, basePath string) attr.Value {
	switch v.Kind() {
	case attr.KindString:
		s, _ := v.AsString()
		return attr.String(RewriteLinks(s, basePath))
	case attr.KindList:
		items := v.Items()
		out := make([]attr.Value, len(items))
		for i, item := range items {
			out[i] = addBasePath(item, basePath)
		}
		return attr.List(out...)
	case attr.KindMap:
		pairs := v.Pairs()
		for i := range pairs {
			pairs[i].Value = addBasePath(pairs[i].Value, basePath)
		}
		return attr.Map(pairs...)
	default:
		return v
	}
}

// RewriteLinks prefixes root-relative path tokens in s with basePath in a
// single left-to-right pass.
//
// A token is a `/` followed by an alphanumeric character and then any run of
// alphanumerics, `/`, `-` or `_`. The slash must not follow an alphanumeric
// character (so `a/b` is left alone), a `/` or `:` (so the host part of
// `http://host/x` and `//cdn/x` is left alone), nor a `<` (closing HTML tags).
// Tokens whose path starts with http, mailto:, tel: or # are kept as is.
func RewriteLinks(s, basePath string) string {
	if basePath == "" || !strings.Contains(s, "/") {
		return s
	}

	var b strings.Builder
	last := 0
	for i := 0; i < len(s); {
		if !tokenStart(s, i) {
			i++
			continue
		}
		end := i + 1
		for end < len(s) && isPathByte(s[end]) {
			end++
		}
		path := s[i+1 : end]
		if !isExternal(path) {
			if b.Len() == 0 {
				b.Grow(len(s) + len(basePath)*2)
			}
			b.WriteString(s[last:i])
			b.WriteString(basePath)
			b.WriteByte('/')
			b.WriteString(path)
			last = end
		}
		i = end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func tokenStart(s string, i int) bool {
	if s[i] != '/' || i+1 >= len(s) || !isAlnum(s[i+1]) {
		return false
	}
	if i == 0 {
		return true
	}
	prev := s[i-1]
	return !isAlnum(prev) && prev != '/' && prev != '<'
}

func isExternal(path string) bool {
	return strings.HasPrefix(path, "http") ||
		strings.HasPrefix(path, "mailto:") ||
		strings.HasPrefix(path, "tel:") ||
		strings.HasPrefix(path, "#")
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isPathByte(c byte) bool {
	return isAlnum(c) || c == '/' || c == '-' || c == '_'
}
