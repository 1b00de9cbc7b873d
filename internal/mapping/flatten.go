package mapping

import (
	"sort"
	"strings"
)

// Flatten converts an arbitrarily nested record into a flat map of
// dot-joined paths to leaf values. Objects are recursed into; arrays,
// scalars and nulls are kept as leaves. A nil record yields an empty map.
func Flatten(record map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(record))
	flattenInto(flat, "", record)
	return flat
}

func flattenInto(flat map[string]interface{}, prefix string, obj map[string]interface{}) {
	for key, value := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenInto(flat, path, nested)
		} else {
			flat[path] = value
		}
	}
}

// FlatPaths returns the flattened paths in sorted order. Go maps iterate
// in random order, so candidate ordering must be pinned here to keep
// first-wins tie breaks in BestMatch deterministic.
func FlatPaths(flat map[string]interface{}) []string {
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Resolve looks up a dotted path in a raw record, descending through
// nested objects. A literal "[*]" token is normalized to the first array
// element before traversal.
func Resolve(record map[string]interface{}, path string) interface{} {
	if path == "" {
		return nil
	}
	path = strings.ReplaceAll(path, "[*]", ".0")
	current := interface{}(record)
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			if arr, isArr := current.([]interface{}); isArr && key == "0" && len(arr) > 0 {
				current = arr[0]
				continue
			}
			return nil
		}
		current = obj[key]
	}
	return current
}
