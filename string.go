package kanon

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringSchema is the chainable builder for string schemas. Every method
// returns a new schema; the receiver is never changed.
type StringSchema struct{ handle }

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+'\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func (s StringSchema) with(r Refinement) StringSchema {
	if pred := r.str; pred != nil {
		r.test = func(v any) bool { str, _ := v.(string); return pred(str) }
	}
	return StringSchema{handle{s.n.withRefinement(r)}}
}

// Refine appends a custom predicate.
func (s StringSchema) Refine(pred func(string) bool, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		str:     pred,
	})
}

// Min requires at least n characters.
func (s StringSchema) Min(n int, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "min",
		code:    CodeTooShort,
		message: messageOr(message, msg("too_short", "min", strconv.Itoa(n), "unit", "character(s)")),
		params:  map[string]any{"minLength": n},
		str:     func(str string) bool { return utf8.RuneCountInString(str) >= n },
	})
}

// Max allows at most n characters.
func (s StringSchema) Max(n int, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "max",
		code:    CodeTooLong,
		message: messageOr(message, msg("too_long", "max", strconv.Itoa(n), "unit", "character(s)")),
		params:  map[string]any{"maxLength": n},
		str:     func(str string) bool { return utf8.RuneCountInString(str) <= n },
	})
}

// Length requires exactly n characters.
func (s StringSchema) Length(n int, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "length",
		code:    CodeInvalidLength,
		message: messageOr(message, msg("exact_length", "length", strconv.Itoa(n), "unit", "character(s)")),
		params:  map[string]any{"minLength": n, "maxLength": n},
		str:     func(str string) bool { return utf8.RuneCountInString(str) == n },
	})
}

// NonEmpty is Min(1).
func (s StringSchema) NonEmpty(message ...string) StringSchema { return s.Min(1, message...) }

// Email requires an e-mail address shape (local@domain.tld).
func (s StringSchema) Email(message ...string) StringSchema {
	return s.format("email", func(str string) bool { return emailPattern.MatchString(str) }, message)
}

// URL requires an absolute URL with scheme and host.
func (s StringSchema) URL(message ...string) StringSchema {
	return s.format("url", func(str string) bool {
		u, err := url.Parse(str)
		return err == nil && u.Scheme != "" && u.Host != ""
	}, message)
}

// UUID requires the canonical 8-4-4-4-12 hex form.
func (s StringSchema) UUID(message ...string) StringSchema {
	return s.format("uuid", func(str string) bool { return uuidPattern.MatchString(str) }, message)
}

func (s StringSchema) format(name string, ok func(string) bool, message []string) StringSchema {
	jsFormat := name
	if name == "url" {
		jsFormat = "uri"
	}
	return s.with(Refinement{
		name:    name,
		code:    CodeInvalidFormat,
		message: messageOr(message, msg("invalid_format", "format", name)),
		params:  map[string]any{"format": jsFormat},
		str:     ok,
	})
}

// Regex requires a match of re.
func (s StringSchema) Regex(re *regexp.Regexp, message ...string) StringSchema {
	if re == nil {
		panic("kanon: nil regexp")
	}
	return s.with(Refinement{
		name:    "regex",
		code:    CodePattern,
		message: messageOr(message, msg("pattern", "pattern", re.String())),
		params:  map[string]any{"pattern": re.String()},
		str:     re.MatchString,
	})
}

// StartsWith requires prefix.
func (s StringSchema) StartsWith(prefix string, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "startsWith",
		code:    CodeInvalidFormat,
		message: messageOr(message, msg("starts_with", "prefix", prefix)),
		params:  map[string]any{"pattern": "^" + regexp.QuoteMeta(prefix)},
		str:     func(str string) bool { return strings.HasPrefix(str, prefix) },
	})
}

// EndsWith requires suffix.
func (s StringSchema) EndsWith(suffix string, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "endsWith",
		code:    CodeInvalidFormat,
		message: messageOr(message, msg("ends_with", "suffix", suffix)),
		params:  map[string]any{"pattern": regexp.QuoteMeta(suffix) + "$"},
		str:     func(str string) bool { return strings.HasSuffix(str, suffix) },
	})
}

// Includes requires substring.
func (s StringSchema) Includes(substring string, message ...string) StringSchema {
	return s.with(Refinement{
		name:    "includes",
		code:    CodeInvalidFormat,
		message: messageOr(message, msg("includes", "substring", substring)),
		params:  map[string]any{"pattern": regexp.QuoteMeta(substring)},
		str:     func(str string) bool { return strings.Contains(str, substring) },
	})
}
