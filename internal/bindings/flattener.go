package bindings

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	flattenedNameSeparatorConstant   = "_"
	environmentAssignmentConstant    = "="
	environmentNullCharacterConstant = "\x00"
)

// Bindings maps variable names to arbitrary values supplied for a single invocation.
type Bindings map[string]any

// Environment maps environment variable names to their values.
type Environment map[string]string

// Flatten converts bindings into environment variables and reports names that cannot be used as
// environment identifiers. Skipped names are returned sorted.
//
// Bindings are applied in sorted name order and map entries in sorted key order, so when two
// bindings flatten to the same variable the one applied last wins regardless of map iteration.
// For {"a": ["x"], "a_0": "y"} the variable a_0 is "y".
func Flatten(bindings Bindings) (Environment, []string) {
	flattenedEnvironment := make(Environment, len(bindings))
	skippedNames := make([]string, 0)

	assign := func(name string, value string) {
		if !IsValidName(name) {
			skippedNames = append(skippedNames, name)
			return
		}
		flattenedEnvironment[name] = value
	}

	bindingNames := make([]string, 0, len(bindings))
	for bindingName := range bindings {
		bindingNames = append(bindingNames, bindingName)
	}
	sort.Strings(bindingNames)
	for _, bindingName := range bindingNames {
		flattenBinding(bindingName, bindings[bindingName], assign)
	}

	sort.Strings(skippedNames)
	return flattenedEnvironment, skippedNames
}

// IsValidName reports whether name can be passed to a child process as an environment variable.
func IsValidName(name string) bool {
	if len(name) == 0 {
		return false
	}
	return !strings.Contains(name, environmentAssignmentConstant) && !strings.Contains(name, environmentNullCharacterConstant)
}

func flattenBinding(bindingName string, bindingValue any, assign func(string, string)) {
	reflectedValue := reflect.ValueOf(bindingValue)
	if !reflectedValue.IsValid() {
		assign(bindingName, "")
		return
	}

	switch {
	case isSequence(reflectedValue):
		for elementIndex := 0; elementIndex < reflectedValue.Len(); elementIndex++ {
			assign(indexedName(bindingName, elementIndex), stringForm(reflectedValue.Index(elementIndex).Interface()))
		}
	case isSet(reflectedValue):
		for elementIndex, element := range sortedSetElements(reflectedValue) {
			assign(indexedName(bindingName, elementIndex), element)
		}
	case reflectedValue.Kind() == reflect.Map:
		for _, entry := range sortedMapEntries(reflectedValue) {
			assign(bindingName+flattenedNameSeparatorConstant+entry.key, entry.value)
		}
	default:
		assign(bindingName, stringForm(bindingValue))
	}
}

// isSequence treats slices and arrays as sequences, except byte slices which read as text.
func isSequence(reflectedValue reflect.Value) bool {
	switch reflectedValue.Kind() {
	case reflect.Slice:
		return reflectedValue.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

// isSet recognizes the map[K]struct{} and map[K]bool set idioms.
func isSet(reflectedValue reflect.Value) bool {
	if reflectedValue.Kind() != reflect.Map {
		return false
	}
	elementType := reflectedValue.Type().Elem()
	switch elementType.Kind() {
	case reflect.Struct:
		return elementType.NumField() == 0
	case reflect.Bool:
		return true
	default:
		return false
	}
}

// sortedSetElements returns the members of a set ordered by string form. Keys mapped to false are
// not members.
func sortedSetElements(reflectedValue reflect.Value) []string {
	elements := make([]string, 0, reflectedValue.Len())
	mapIterator := reflectedValue.MapRange()
	for mapIterator.Next() {
		if memberValue := mapIterator.Value(); memberValue.Kind() == reflect.Bool && !memberValue.Bool() {
			continue
		}
		elements = append(elements, stringForm(mapIterator.Key().Interface()))
	}
	sort.Strings(elements)
	return elements
}

type mapEntry struct {
	key   string
	value string
}

// sortedMapEntries orders entries by key string form, then by value, so keys with equal string
// forms such as 1 and "1" in a map[any]any resolve the same way on every call.
func sortedMapEntries(reflectedValue reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, reflectedValue.Len())
	mapIterator := reflectedValue.MapRange()
	for mapIterator.Next() {
		entries = append(entries, mapEntry{
			key:   stringForm(mapIterator.Key().Interface()),
			value: stringForm(mapIterator.Value().Interface()),
		})
	}
	sort.Slice(entries, func(leftIndex int, rightIndex int) bool {
		if entries[leftIndex].key != entries[rightIndex].key {
			return entries[leftIndex].key < entries[rightIndex].key
		}
		return entries[leftIndex].value < entries[rightIndex].value
	})
	return entries
}

func indexedName(bindingName string, elementIndex int) string {
	return bindingName + flattenedNameSeparatorConstant + strconv.Itoa(elementIndex)
}

func stringForm(value any) string {
	if value == nil {
		return ""
	}
	reflectedValue := reflect.ValueOf(value)
	switch reflectedValue.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if reflectedValue.IsNil() {
			return ""
		}
	}
	if stringer, isStringer := value.(fmt.Stringer); isStringer {
		return stringer.String()
	}
	convertedValue, conversionError := cast.ToStringE(value)
	if conversionError != nil {
		return fmt.Sprint(value)
	}
	return convertedValue
}
