package bindings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellengine/internal/bindings"
)

type labelledValue struct {
	label string
}

func (value labelledValue) String() string {
	return "label:" + value.label
}

func TestFlattenBindings(testInstance *testing.T) {
	var nilStringPointer *string

	testCases := []struct {
		name                string
		bindings            bindings.Bindings
		expectedEnvironment bindings.Environment
	}{
		{
			name:                "string_scalar",
			bindings:            bindings.Bindings{"string": "aString"},
			expectedEnvironment: bindings.Environment{"string": "aString"},
		},
		{
			name:                "numeric_and_boolean_scalars",
			bindings:            bindings.Bindings{"integer": 42, "float": 42.5, "flag": true},
			expectedEnvironment: bindings.Environment{"integer": "42", "float": "42.5", "flag": "true"},
		},
		{
			name:                "nil_scalar",
			bindings:            bindings.Bindings{"var": nil},
			expectedEnvironment: bindings.Environment{"var": ""},
		},
		{
			name:                "typed_nil_pointer",
			bindings:            bindings.Bindings{"pointer": nilStringPointer},
			expectedEnvironment: bindings.Environment{"pointer": ""},
		},
		{
			name:                "stringer_scalar",
			bindings:            bindings.Bindings{"labelled": labelledValue{label: "x"}, "duration": 2 * time.Second},
			expectedEnvironment: bindings.Environment{"labelled": "label:x", "duration": "2s"},
		},
		{
			name:                "byte_slice_reads_as_text",
			bindings:            bindings.Bindings{"raw": []byte("bytes")},
			expectedEnvironment: bindings.Environment{"raw": "bytes"},
		},
		{
			name: "string_array",
			bindings: bindings.Bindings{
				"array":       [3]string{"oneString", "anotherString", "thenAString"},
				"array_empty": [0]string{},
			},
			expectedEnvironment: bindings.Environment{"array_0": "oneString", "array_1": "anotherString", "array_2": "thenAString"},
		},
		{
			name: "lists_with_nulls",
			bindings: bindings.Bindings{
				"list":       []any{"oneString", 2, nil},
				"list_empty": []string{},
				"list_nulls": []*string{nil, nil},
			},
			expectedEnvironment: bindings.Environment{
				"list_0":       "oneString",
				"list_1":       "2",
				"list_2":       "",
				"list_nulls_0": "",
				"list_nulls_1": "",
			},
		},
		{
			name: "maps",
			bindings: bindings.Bindings{
				"map":       map[string]string{"key": "value"},
				"map_empty": map[string]any{},
				"map_nulls": map[string]any{"key": nil},
				"map_ints":  map[int]int{7: 49},
			},
			expectedEnvironment: bindings.Environment{"map_key": "value", "map_nulls_key": "", "map_ints_7": "49"},
		},
		{
			name:                "set_elements_ordered_by_string_form",
			bindings:            bindings.Bindings{"set": map[string]struct{}{"gamma": {}, "alpha": {}, "beta": {}}},
			expectedEnvironment: bindings.Environment{"set_0": "alpha", "set_1": "beta", "set_2": "gamma"},
		},
		{
			name: "boolean_sets_keep_true_members",
			bindings: bindings.Bindings{
				"set":       map[string]bool{"beta": true, "alpha": true, "omitted": false},
				"set_empty": map[int]bool{3: false},
			},
			expectedEnvironment: bindings.Environment{"set_0": "alpha", "set_1": "beta"},
		},
		{
			name:                "nested_sequence_is_not_deep_flattened",
			bindings:            bindings.Bindings{"nested": [][]string{{"a", "b"}, {"c"}}},
			expectedEnvironment: bindings.Environment{"nested_0": "[a b]", "nested_1": "[c]"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			flattenedEnvironment, skippedNames := bindings.Flatten(testCase.bindings)
			require.Empty(testInstance, skippedNames)
			require.Equal(testInstance, testCase.expectedEnvironment, flattenedEnvironment)
		})
	}
}

func TestFlattenSkipsInvalidNames(testInstance *testing.T) {
	flattenedEnvironment, skippedNames := bindings.Flatten(bindings.Bindings{
		"valid":     "kept",
		"in=valid":  "dropped",
		"":          "dropped",
		"map":       map[string]string{"a=b": "dropped", "ok": "kept"},
		"with\x00x": "dropped",
	})

	require.Equal(testInstance, bindings.Environment{"valid": "kept", "map_ok": "kept"}, flattenedEnvironment)
	require.Equal(testInstance, []string{"", "in=valid", "map_a=b", "with\x00x"}, skippedNames)
}

func TestFlattenIsDeterministic(testInstance *testing.T) {
	source := bindings.Bindings{
		"alpha": []int{1, 2, 3},
		"beta":  map[string]int{"x": 1, "y": 2},
		"gamma": "scalar",
	}

	firstEnvironment, _ := bindings.Flatten(source)
	for attempt := 0; attempt < 20; attempt++ {
		nextEnvironment, _ := bindings.Flatten(source)
		require.Equal(testInstance, firstEnvironment, nextEnvironment)
	}
}

func TestFlattenResolvesCollidingNamesByBindingOrder(testInstance *testing.T) {
	testCases := []struct {
		name                string
		bindings            bindings.Bindings
		expectedEnvironment bindings.Environment
	}{
		{
			name:                "scalar_after_sequence",
			bindings:            bindings.Bindings{"a": []string{"fromSequence"}, "a_0": "fromScalar"},
			expectedEnvironment: bindings.Environment{"a_0": "fromScalar"},
		},
		{
			name:                "map_entry_before_scalar",
			bindings:            bindings.Bindings{"m": map[string]string{"k": "fromMap"}, "m_k": "fromScalar"},
			expectedEnvironment: bindings.Environment{"m_k": "fromScalar"},
		},
		{
			name:                "map_keys_with_equal_string_forms",
			bindings:            bindings.Bindings{"mixed": map[any]string{1: "fromInteger", "1": "fromString"}},
			expectedEnvironment: bindings.Environment{"mixed_1": "fromString"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			for attempt := 0; attempt < 200; attempt++ {
				flattenedEnvironment, skippedNames := bindings.Flatten(testCase.bindings)
				require.Empty(testInstance, skippedNames)
				require.Equal(testInstance, testCase.expectedEnvironment, flattenedEnvironment)
			}
		})
	}
}

func TestMergeEnvironmentOverridesInheritedEntries(testInstance *testing.T) {
	inherited := []string{
		"PATH=/usr/bin",
		"HOME=/home/user",
		"EQUATION=a=b",
		"=C:=C:\\work",
		"MALFORMED",
		"",
	}
	flattened := bindings.Environment{"HOME": "/tmp/override", "string": "aString"}

	mergedEnvironment := bindings.MergeEnvironment(inherited, flattened)

	require.Equal(testInstance, bindings.Environment{
		"PATH":     "/usr/bin",
		"HOME":     "/tmp/override",
		"EQUATION": "a=b",
		"=C:":      "C:\\work",
		"string":   "aString",
	}, mergedEnvironment)
}

func TestEnvironmentPairsAreSorted(testInstance *testing.T) {
	environment := bindings.Environment{"b": "2", "a": "1", "c": ""}
	require.Equal(testInstance, []string{"a=1", "b=2", "c="}, environment.Pairs())
}
