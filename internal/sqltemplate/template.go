// Package sqltemplate turns the external scoring SQL asset into an executable,
// parameter-bound query.
//
// The asset carries six named placeholders written as {{ name }}. They are
// never spliced into the SQL text: every occurrence becomes a positional
// parameter ($n) and the value travels separately as a query argument.
package sqltemplate

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder names recognised in the SQL asset
const (
	PlaceholderJobID         = "job_vacancy_id"
	PlaceholderRoleName      = "role_name"
	PlaceholderRoleLevel     = "role_level"
	PlaceholderRolePurpose   = "role_purpose"
	PlaceholderBenchmarkIDs  = "selected_talent_ids"
	PlaceholderWeightsConfig = "weights_config"
)

// DefaultWeightsConfig is bound to {{ weights_config }}; weighting is not configurable yet
const DefaultWeightsConfig = "{}"

var (
	// placeholderPattern matches one {{ name }} token
	placeholderPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)
	// leadingPlaceholder matches a token at the start of the input
	leadingPlaceholder = regexp.MustCompile(`^\{\{\s*(\w+)\s*\}\}`)
)

// Params holds the values bound to the asset's placeholders
type Params struct {
	JobID         int64
	RoleName      string
	RoleLevel     string
	RolePurpose   string
	BenchmarkIDs  []int64
	WeightsConfig string
}

// Load reads the SQL asset from disk
func Load(path string) (string, error) {
	if path == "" {
		return "", &TemplateError{Message: "SQL asset path is empty"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to read SQL asset %s", path), Cause: err}
	}
	return string(data), nil
}

// Render replaces every placeholder in tmpl with positional parameters and
// returns the query together with its arguments.
//
// A bare scalar placeholder binds its native value; repeated occurrences share
// one parameter. A string literal that holds nothing but a placeholder
// ('{{ name }}') becomes that parameter and binds the value's text form.
// A literal that mixes text and placeholders ('%{{ role_name }}%') becomes a
// parenthesised concatenation of its pieces, so casts applied to the literal
// still apply to the whole string. A bare {{ selected_talent_ids }} expands to
// one parameter per id so that IN (...) and ARRAY[...] keep working; an empty
// list expands to NULL. Placeholders inside comments are reduced to their names.
func Render(tmpl string, p Params) (string, []any, error) {
	if p.WeightsConfig == "" {
		p.WeightsConfig = DefaultWeightsConfig
	}

	r := &renderer{params: p, indexes: make(map[string]string)}

	var sb strings.Builder
	n := len(tmpl)
	for i := 0; i < n; {
		c := tmpl[i]
		switch {
		case c == '\'':
			end := closingQuote(tmpl, i)
			if end < 0 {
				return "", nil, &TemplateError{Message: fmt.Sprintf("unterminated string literal at offset %d", i)}
			}
			expr, err := r.literal(tmpl[i+1 : end-1])
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(expr)
			i = end
		case c == '"':
			end := skipQuoted(tmpl, i, c)
			sb.WriteString(tmpl[i:end])
			i = end
		case c == '-' && i+1 < n && tmpl[i+1] == '-':
			end := strings.IndexByte(tmpl[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			sb.WriteString(stripPlaceholders(tmpl[i:end]))
			i = end
		case c == '/' && i+1 < n && tmpl[i+1] == '*':
			end := strings.Index(tmpl[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			sb.WriteString(stripPlaceholders(tmpl[i:end]))
			i = end
		case c == '{' && strings.HasPrefix(tmpl[i:], "{{"):
			m := leadingPlaceholder.FindStringSubmatchIndex(tmpl[i:])
			if m == nil {
				sb.WriteByte(c)
				i++
				continue
			}
			expr, err := r.expand(tmpl[i+m[2]:i+m[3]], false)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(expr)
			i += m[1]
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), r.args, nil
}

// literal renders the body of one single-quoted string literal
func (r *renderer) literal(body string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return "'" + body + "'", nil
	}
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(body) {
		return r.expand(body[matches[0][2]:matches[0][3]], true)
	}

	var pieces []string
	last := 0
	for _, m := range matches {
		if m[0] > last {
			pieces = append(pieces, "'"+body[last:m[0]]+"'")
		}
		expr, err := r.expand(body[m[2]:m[3]], true)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, expr+"::text")
		last = m[1]
	}
	if last < len(body) {
		pieces = append(pieces, "'"+body[last:]+"'")
	}
	return "(" + strings.Join(pieces, " || ") + ")", nil
}

// closingQuote returns the index just past the single-quoted literal starting
// at start, or -1 when the literal never closes
func closingQuote(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return i + 1
	}
	return -1
}

func stripPlaceholders(comment string) string {
	return placeholderPattern.ReplaceAllString(comment, "$1")
}

type renderer struct {
	params  Params
	args    []any
	indexes map[string]string // placeholder key -> parameter expression
}

func (r *renderer) expand(name string, quoted bool) (string, error) {
	key := name
	if quoted {
		key = "'" + name
	}
	if expr, ok := r.indexes[key]; ok {
		return expr, nil
	}

	var expr string
	switch name {
	case PlaceholderBenchmarkIDs:
		if quoted {
			expr = r.bind(joinIDs(r.params.BenchmarkIDs))
		} else {
			expr = r.bindList(r.params.BenchmarkIDs)
		}
	case PlaceholderJobID:
		if quoted {
			expr = r.bind(strconv.FormatInt(r.params.JobID, 10))
		} else {
			expr = r.bind(r.params.JobID)
		}
	case PlaceholderRoleName:
		expr = r.bind(r.params.RoleName)
	case PlaceholderRoleLevel:
		expr = r.bind(r.params.RoleLevel)
	case PlaceholderRolePurpose:
		expr = r.bind(r.params.RolePurpose)
	case PlaceholderWeightsConfig:
		expr = r.bind(r.params.WeightsConfig)
	default:
		return "", &TemplateError{Message: fmt.Sprintf("unknown placeholder {{ %s }}", name)}
	}

	r.indexes[key] = expr
	return expr, nil
}

func (r *renderer) bind(value any) string {
	r.args = append(r.args, value)
	return "$" + strconv.Itoa(len(r.args))
}

func (r *renderer) bindList(ids []int64) string {
	if len(ids) == 0 {
		return "NULL"
	}
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = r.bind(id)
	}
	return strings.Join(refs, ", ")
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
