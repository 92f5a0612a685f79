package main

import (
	"fmt"
	"io"
	"os"
)

// readInput resolves command input: an explicit value, a file, or stdin when
// neither is given.
func readInput(value, file string) (string, error) {
	if value != "" {
		return value, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file %q: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: pass a value, --file, or pipe content on stdin")
	}
	return string(data), nil
}
