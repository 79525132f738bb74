package bindings

import (
	"sort"
	"strings"
)

// MergeEnvironment overlays flattened variables on top of inherited KEY=VALUE entries.
func MergeEnvironment(inherited []string, flattened Environment) Environment {
	mergedEnvironment := make(Environment, len(inherited)+len(flattened))
	for _, inheritedEntry := range inherited {
		entryName, entryValue, parsed := splitEnvironmentEntry(inheritedEntry)
		if !parsed {
			continue
		}
		mergedEnvironment[entryName] = entryValue
	}
	for flattenedName, flattenedValue := range flattened {
		mergedEnvironment[flattenedName] = flattenedValue
	}
	return mergedEnvironment
}

// Pairs renders the environment as sorted KEY=VALUE entries.
func (environment Environment) Pairs() []string {
	names := make([]string, 0, len(environment))
	for name := range environment {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+environmentAssignmentConstant+environment[name])
	}
	return pairs
}

// splitEnvironmentEntry tolerates the Windows per-drive entries whose names start with "=".
func splitEnvironmentEntry(entry string) (string, string, bool) {
	if len(entry) == 0 {
		return "", "", false
	}
	separatorIndex := strings.Index(entry[1:], environmentAssignmentConstant)
	if separatorIndex < 0 {
		return "", "", false
	}
	separatorIndex++
	return entry[:separatorIndex], entry[separatorIndex+1:], true
}
