// Package bindings flattens caller-supplied variables into process environment
// variables.
//
// Scalars map to a single variable, sequences and sets to one variable per
// element suffixed with the element index, and mappings to one variable per
// entry suffixed with the entry key. Flattening stops after one level.
package bindings
