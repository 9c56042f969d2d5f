// Package safeserialize renders arbitrary nested values into a depth- and
// cycle-bounded representation made of maps, slices, and primitives, suitable
// for logging and diagnostics. Serialization never panics: self-referential
// structures, unexported internals, and misbehaving values all degrade into
// explicit markers instead of crashing the caller.
package safeserialize

import (
	"fmt"
	"reflect"
)

const (
	// DefaultMaxDepth is the recursion limit used by Serialize.
	DefaultMaxDepth = 15

	// maxSequenceElements caps how many slice/array elements are rendered.
	maxSequenceElements = 50

	// maxStringLength caps rendered string values.
	maxStringLength = 500

	// maxKeyLength caps stringified map keys.
	maxKeyLength = 100
)

// Serialize renders v with the default depth limit.
func Serialize(v any) any {
	return SerializeDepth(v, DefaultMaxDepth)
}

// SerializeDepth renders v, recursing at most maxDepth levels. The result
// contains only strings, bools, numbers, nils, []any, and map[string]any, so
// it can be handed to any JSON encoder without risk of infinite recursion.
func SerializeDepth(v any, maxDepth int) (result any) {
	defer func() {
		if r := recover(); r != nil {
			result = map[string]any{"__serialization_error__": truncate(fmt.Sprint(r), maxStringLength)}
		}
	}()

	return serialize(reflect.ValueOf(v), map[uintptr]struct{}{}, 0, maxDepth)
}

// serialize walks one value. The ancestors set holds the addresses of every
// container on the path from the root to this node; it is copied before being
// passed to children so sibling branches that share a value are not falsely
// reported as cycles.
func serialize(rv reflect.Value, ancestors map[uintptr]struct{}, depth, maxDepth int) any {
	if depth > maxDepth {
		return map[string]any{"__max_depth__": fmt.Sprintf("depth limit reached at %d", depth)}
	}

	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return truncate(rv.String(), maxStringLength)

	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Pointer {
			if marker := checkCycle(rv, ancestors); marker != nil {
				return marker
			}
			ancestors = withAncestor(ancestors, rv.Pointer())
		}
		return serialize(rv.Elem(), ancestors, depth, maxDepth)

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if marker := checkCycle(rv, ancestors); marker != nil {
			return marker
		}
		ancestors = withAncestor(ancestors, rv.Pointer())

		result := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := truncate(stringifyKey(iter.Key()), maxKeyLength)
			result[key] = serialize(iter.Value(), copyAncestors(ancestors), depth+1, maxDepth)
		}
		return result

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if marker := checkCycle(rv, ancestors); marker != nil {
			return marker
		}
		ancestors = withAncestor(ancestors, rv.Pointer())
		return serializeSequence(rv, ancestors, depth, maxDepth)

	case reflect.Array:
		return serializeSequence(rv, ancestors, depth, maxDepth)

	case reflect.Struct:
		result := make(map[string]any)
		structType := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := structType.Field(i)
			if !field.IsExported() {
				continue
			}
			result[field.Name] = serialize(rv.Field(i), copyAncestors(ancestors), depth+1, maxDepth)
		}
		return result

	default:
		// Chan, Func, Complex, UnsafePointer and anything else inspectable
		// only as an opaque value.
		return map[string]any{
			"__string_repr__": truncate(fmt.Sprint(rv), maxStringLength),
			"__type__":        rv.Type().String(),
		}
	}
}

// serializeSequence renders a slice or array, capping output at the first 50
// elements with an explicit marker for the remainder.
func serializeSequence(rv reflect.Value, ancestors map[uintptr]struct{}, depth, maxDepth int) any {
	length := rv.Len()
	rendered := length
	if rendered > maxSequenceElements {
		rendered = maxSequenceElements
	}

	result := make([]any, 0, rendered+1)
	for i := 0; i < rendered; i++ {
		result = append(result, serialize(rv.Index(i), copyAncestors(ancestors), depth+1, maxDepth))
	}

	if length > maxSequenceElements {
		result = append(result, map[string]any{
			"__truncated__": fmt.Sprintf("%d of %d elements rendered", rendered, length),
		})
	}

	return result
}

// checkCycle returns a circular-reference marker when the value's address is
// already on the current ancestor chain.
func checkCycle(rv reflect.Value, ancestors map[uintptr]struct{}) any {
	addr := rv.Pointer()
	if _, seen := ancestors[addr]; seen {
		return map[string]any{"__circular_ref__": fmt.Sprintf("%s@0x%x", rv.Type().String(), addr)}
	}
	return nil
}

func withAncestor(ancestors map[uintptr]struct{}, addr uintptr) map[uintptr]struct{} {
	next := copyAncestors(ancestors)
	next[addr] = struct{}{}
	return next
}

func copyAncestors(ancestors map[uintptr]struct{}) map[uintptr]struct{} {
	next := make(map[uintptr]struct{}, len(ancestors))
	for addr := range ancestors {
		next[addr] = struct{}{}
	}
	return next
}

// truncate bounds s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stringifyKey coerces a map key of any kind into a string.
func stringifyKey(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	return fmt.Sprint(key.Interface())
}
