package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the leaserag home directory.
const HomeEnv = "LEASERAG_HOME"

// HomeDir returns $LEASERAG_HOME, or ~/.leaserag when it is unset.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".leaserag"), nil
}
