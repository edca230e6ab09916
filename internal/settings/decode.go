package settings

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// Decode types a textual value against the kind of def. Values that are not
// strings, or strings that cannot be typed, are returned unchanged so the
// resolver can report them.
func Decode(raw any, def any) any {
	s, ok := raw.(string)
	if !ok || def == nil {
		return raw
	}
	text := strings.TrimSpace(s)

	switch def.(type) {
	case string:
		return raw
	case bool:
		if b, err := cast.ToBoolE(text); err == nil {
			return b
		}
	case time.Duration:
		return decodeDuration(text, raw)
	case int, int64, int32, uint, uint64, uint32:
		return decodeInt(text, raw)
	default:
		if reflect.ValueOf(def).Kind() == reflect.Map {
			var m map[string]any
			if err := yaml.Unmarshal([]byte(text), &m); err == nil && m != nil {
				return m
			}
		}
	}
	return raw
}

// decodeInt reads base-10 integer text, including the "8.0" form. Empty text,
// fractions and prefixed or underscored literals such as "0x10" are returned
// unchanged.
func decodeInt(text string, raw any) any {
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if text == "" || strings.ContainsAny(text, "_xXoObB") {
		return raw
	}
	// cast truncates fractions; only whole values like "8.0" are accepted.
	if i := strings.IndexByte(text, '.'); i >= 0 && strings.Trim(text[i+1:], "0") != "" {
		return raw
	}

	// cast parses with base 0, so leading zeros would read as octal.
	sign, digits := "", text
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" || digits[0] == '.' {
		digits = "0" + digits
	}
	if n, err := cast.ToIntE(sign + digits); err == nil {
		return n
	}
	return raw
}

// decodeDuration reads a bare integer as seconds and anything else as a
// duration string, which may use day and week units.
func decodeDuration(text string, raw any) any {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if d, err := str2duration.ParseDuration(text); err == nil {
		return d
	}
	return raw
}
