package fs

import (
	"bufio"
	"fmt"
	"os"
)

// IgnoreFileName is read from the root of every captured tree.
// It uses gitignore syntax.
const IgnoreFileName = ".xrayignore"

// defaultIgnorePatterns are always applied regardless of config or the ignore file.
// Only the root ignore file is read, so only that one is hidden.
var defaultIgnorePatterns = []string{"/" + IgnoreFileName}

// ParseIgnoreFile reads an ignore file and returns its raw lines.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
