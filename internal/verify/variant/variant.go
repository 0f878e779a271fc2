// Package variant holds the candidate query texts compared by the verifier.
package variant

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
)

const (
	OriginalLabel  = "original"
	OptimizedLabel = "optimized"
)

//go:embed queries/*.sql
var builtinQueries embed.FS

// Variant is a labelled query text that passed validation.
// The zero value is not usable; construct with New.
type Variant struct {
	label string
	sql   string
	raw   string
}

// New validates text and strips a single trailing statement terminator.
// Text holding more than one statement is rejected, since it gets wrapped as a subquery.
func New(label, text string) (Variant, error) {
	if strings.TrimSpace(label) == "" {
		return Variant{}, apperr.NewValidation("variant label is empty")
	}
	body, err := normalize(text)
	if err != nil {
		return Variant{}, apperr.NewValidationWrap(fmt.Sprintf("variant %q", label), err)
	}
	return Variant{label: label, sql: body, raw: text}, nil
}

func FromFile(label, path string) (Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Variant{}, fmt.Errorf("read variant %q: %w", label, err)
	}
	return New(label, string(data))
}

// Builtin returns the embedded original and optimized engagement queries.
func Builtin() (Variant, Variant, error) {
	orig, err := builtin(OriginalLabel)
	if err != nil {
		return Variant{}, Variant{}, err
	}
	opt, err := builtin(OptimizedLabel)
	if err != nil {
		return Variant{}, Variant{}, err
	}
	return orig, opt, nil
}

func builtin(label string) (Variant, error) {
	data, err := builtinQueries.ReadFile("queries/" + label + ".sql")
	if err != nil {
		return Variant{}, fmt.Errorf("read builtin variant %q: %w", label, err)
	}
	return New(label, string(data))
}

func (v Variant) Label() string { return v.label }

// SQL is the validated single-statement body, safe to wrap as a subquery.
func (v Variant) SQL() string { return v.sql }

// Text is the query exactly as supplied.
func (v Variant) Text() string { return v.raw }

func (v Variant) IsZero() bool { return v.sql == "" }

func normalize(text string) (string, error) {
	end, err := statementEnd(text)
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(text[:end])
	if body == "" {
		return "", apperr.NewValidation("query text is empty")
	}
	return body, nil
}

// statementEnd returns the offset of the first top-level ';', or len(text).
// Anything after that ';' other than whitespace, comments or more ';' is an error.
func statementEnd(text string) (int, error) {
	end := -1
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\'' || c == '"':
			j := strings.IndexByte(text[i+1:], c)
			if j < 0 {
				return 0, apperr.NewValidation("unterminated quoted literal")
			}
			if end >= 0 {
				return 0, apperr.NewValidation("query text holds more than one statement")
			}
			i += j + 1
		case c == '-' && strings.HasPrefix(text[i:], "--"):
			j := strings.IndexByte(text[i:], '\n')
			if j < 0 {
				i = len(text)
			} else {
				i += j
			}
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			j := strings.Index(text[i+2:], "*/")
			if j < 0 {
				return 0, apperr.NewValidation("unterminated block comment")
			}
			i += j + 3
		case c == ';':
			if end < 0 {
				end = i
			}
		case end >= 0 && !isSpace(c):
			return 0, apperr.NewValidation("query text holds more than one statement")
		}
	}
	if end < 0 {
		return len(text), nil
	}
	return end, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
