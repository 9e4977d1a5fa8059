package sqltemplate

import (
	"strconv"
	"strings"
)

// Bind rewrites :name parameters in query to PostgreSQL positional parameters
// and returns the arguments in order. Repeated names share one parameter.
// Type casts (::), quoted literals, quoted identifiers and comments are left
// untouched. A name missing from named is a *BindError.
func Bind(query string, named map[string]any) (string, []any, error) {
	var (
		sb      strings.Builder
		args    []any
		indexes = make(map[string]int)
	)

	n := len(query)
	for i := 0; i < n; {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			end := skipQuoted(query, i, c)
			sb.WriteString(query[i:end])
			i = end
		case c == '-' && i+1 < n && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			sb.WriteString(query[i:end])
			i = end
		case c == '/' && i+1 < n && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			sb.WriteString(query[i:end])
			i = end
		case c == ':' && i+1 < n && query[i+1] == ':':
			sb.WriteString("::")
			i += 2
		case c == ':' && i+1 < n && isNameStart(query[i+1]):
			j := i + 1
			for j < n && isNameChar(query[j]) {
				j++
			}
			name := query[i+1 : j]
			idx, ok := indexes[name]
			if !ok {
				value, exists := named[name]
				if !exists {
					return "", nil, &BindError{Name: name}
				}
				args = append(args, value)
				idx = len(args)
				indexes[name] = idx
			}
			sb.WriteString("$" + strconv.Itoa(idx))
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), args, nil
}

// skipQuoted returns the index just past the literal starting at start.
// A doubled quote inside the literal is an escaped quote.
func skipQuoted(s string, start int, quote byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
