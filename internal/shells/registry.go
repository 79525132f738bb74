package shells

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

const (
	windowsOperatingSystemConstant        = "windows"
	unsupportedShellErrorTemplateConstant = "%w: %q (supported: %s)"
	supportedShellsSeparatorConstant      = ", "
)

// ErrUnsupportedShell indicates a shell name outside the supported set.
var ErrUnsupportedShell = errors.New("unsupported shell")

var shellAliases = map[string]ShellDescriptor{
	"bash": NewBashShell(),
	"sh":   NewBashShell(),
	"cmd":  NewCommandInterpreterShell(),
	"bat":  NewCommandInterpreterShell(),
}

// Resolve returns the descriptor registered under name, ignoring case and surrounding whitespace.
func Resolve(name string) (ShellDescriptor, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))
	descriptor, exists := shellAliases[normalizedName]
	if !exists {
		return nil, fmt.Errorf(unsupportedShellErrorTemplateConstant, ErrUnsupportedShell, name, strings.Join(SupportedNames(), supportedShellsSeparatorConstant))
	}
	return descriptor, nil
}

// ResolveOrDefault resolves name, falling back to the platform default when name is blank.
func ResolveOrDefault(name string) (ShellDescriptor, error) {
	if len(strings.TrimSpace(name)) == 0 {
		return DefaultForOperatingSystem(runtime.GOOS), nil
	}
	return Resolve(name)
}

// DefaultForOperatingSystem selects cmd on Windows and bash everywhere else.
func DefaultForOperatingSystem(operatingSystem string) ShellDescriptor {
	if operatingSystem == windowsOperatingSystemConstant {
		return NewCommandInterpreterShell()
	}
	return NewBashShell()
}

// SupportedNames lists every accepted shell name in sorted order.
func SupportedNames() []string {
	names := make([]string, 0, len(shellAliases))
	for name := range shellAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
