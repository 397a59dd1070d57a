package workspace

import (
	"os"
	"path/filepath"
)

// DetectWorkspace detects the workspace root directory
// It walks up looking for a .steward directory, otherwise uses the current directory
func DetectWorkspace() (string, error) {
	// Get current working directory
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Try to find a directory that carries its own .steward data
	root := findStewardRoot(pwd)
	if root != "" {
		return root, nil
	}

	// If no marker found, use current directory
	return pwd, nil
}

// findStewardRoot walks up the directory tree looking for a .steward directory
func findStewardRoot(startPath string) string {
	currentPath := startPath

	for {
		markerPath := filepath.Join(currentPath, ".steward")
		if info, err := os.Stat(markerPath); err == nil && info.IsDir() {
			return currentPath
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			// Reached the root directory
			break
		}
		currentPath = parentPath
	}

	return ""
}

// EnsureStewardDir creates the .steward directory if it doesn't exist
func EnsureStewardDir(workspacePath string) error {
	stewardDir := filepath.Join(workspacePath, ".steward")

	if _, err := os.Stat(stewardDir); os.IsNotExist(err) {
		return os.MkdirAll(stewardDir, 0755)
	}

	return nil
}
