// Package codegen implements flat {{name}} placeholder substitution.
//
// There are no expressions, conditionals or loops: a placeholder is the
// literal text between "{{" and the next "}}", and only keys supplied by the
// caller are replaced.
package codegen

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"codegen/internal/domain"
	"codegen/internal/domain/services"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// Engine is the default CodeGenerator. It is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a substitution engine
func NewEngine() services.CodeGenerator {
	return Engine{}
}

// Validate reports whether opening and closing markers are balanced.
// This is a lexical count only; individual placeholders are not parsed.
func (Engine) Validate(content string) bool {
	return strings.Count(content, openMarker) == strings.Count(content, closeMarker)
}

// Render replaces every {{key}} for each key in variables.
//
// All markers are replaced in one left-to-right pass, so a substituted value
// is never re-scanned and the result does not depend on map iteration order.
// When two markers start at the same position the longer one wins.
func (e Engine) Render(content string, variables map[string]interface{}) (string, error) {
	if !e.Validate(content) {
		return "", &domain.TemplateMalformedError{
			Opening: strings.Count(content, openMarker),
			Closing: strings.Count(content, closeMarker),
		}
	}
	if len(variables) == 0 {
		return content, nil
	}

	keys := make([]string, 0, len(variables))
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, openMarker+k+closeMarker, Stringify(variables[k]))
	}

	return strings.NewReplacer(pairs...).Replace(content), nil
}

// Placeholders lists distinct placeholder names in order of first appearance.
func (Engine) Placeholders(content string) []string {
	names := []string{}
	seen := make(map[string]struct{})

	i := 0
	for {
		start := strings.Index(content[i:], openMarker)
		if start < 0 {
			break
		}
		start += i
		nameStart := start + len(openMarker)

		end := strings.Index(content[nameStart:], closeMarker)
		if end < 0 {
			break
		}
		name := content[nameStart : nameStart+end]

		// "{{{a}}}" and "{{ {{a}}" hold a placeholder further right
		if strings.Contains(name, "{") {
			i = start + 1
			continue
		}

		if _, ok := seen[name]; !ok && name != "" {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		i = nameStart + end + len(closeMarker)
	}

	return names
}

// Stringify returns the text substituted for a variable value.
//   - strings are used verbatim
//   - nil becomes the empty string
//   - bools become "true" or "false"
//   - numbers use their shortest decimal form (integral floats without exponent)
//   - maps and slices are encoded as compact JSON
//
// These are JSON spellings: a true value renders as "true", not "True", and
// nil renders as "", not "None".
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err == nil && len(data) > 0 && (data[0] == '{' || data[0] == '[') {
			return string(data)
		}
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
