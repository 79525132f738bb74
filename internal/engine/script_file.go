package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/shellengine/internal/charset"
)

const (
	scriptFilePatternPrefixConstant = "shell_*"
	scriptFileErrorTemplateConstant = "%w: %w"
)

// ErrScriptFile indicates the temporary script file could not be prepared.
var ErrScriptFile = errors.New("unable to prepare temporary script file")

// writeScriptFile stores command in a new temporary file ending with extension and returns its path.
// The caller owns the file and must remove it.
func writeScriptFile(command string, extension string, charsetName string) (string, error) {
	scriptEncoding, resolveError := charset.Resolve(charsetName)
	if resolveError != nil {
		return "", fmt.Errorf(scriptFileErrorTemplateConstant, ErrScriptFile, resolveError)
	}

	encodedCommand, encodeError := charset.Encode(scriptEncoding, command)
	if encodeError != nil {
		return "", fmt.Errorf(scriptFileErrorTemplateConstant, ErrScriptFile, encodeError)
	}

	scriptFile, createError := os.CreateTemp("", scriptFilePatternPrefixConstant+extension)
	if createError != nil {
		return "", fmt.Errorf(scriptFileErrorTemplateConstant, ErrScriptFile, createError)
	}

	scriptFilePath := scriptFile.Name()
	_, writeError := scriptFile.Write(encodedCommand)
	closeError := scriptFile.Close()
	if failure := errors.Join(writeError, closeError); failure != nil {
		_ = os.Remove(scriptFilePath)
		return "", fmt.Errorf(scriptFileErrorTemplateConstant, ErrScriptFile, failure)
	}

	return scriptFilePath, nil
}
