package matcher

import (
	"encoding/json"
	"strconv"
	"strings"
)

// resolvePath walks a dot-separated path through arbitrary decoded JSON.
// Object segments index maps; numeric segments index arrays. A missing or
// mistyped segment yields (_, false) rather than an error: path misses are
// an expected part of scanning heterogeneous credentials.
func resolvePath(content map[string]any, path string) (string, bool) {
	var current any = content
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return "", false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return "", false
			}
			current = node[index]
		default:
			return "", false
		}
	}
	return stringify(current)
}

// stringify renders a scalar leaf as text. Objects and arrays are not
// comparable to claimed values and count as misses.
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}
