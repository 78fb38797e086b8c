package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines file access to the configured paper directory.
type PathValidator struct {
	paperDirectory string
}

// NewPathValidator creates a validator rooted at the given directory. The
// directory does not need to exist yet; validation is skipped until it does.
func NewPathValidator(paperDirectory string) (*PathValidator, error) {
	if paperDirectory == "" {
		return nil, fmt.Errorf("paper directory cannot be empty")
	}
	return &PathValidator{paperDirectory: paperDirectory}, nil
}

// PaperDirectory returns the configured root.
func (v *PathValidator) PaperDirectory() string {
	return v.paperDirectory
}

// ValidatePath checks that a path resolves inside the paper directory.
// Symlinks are resolved before comparison so a link pointing outside the
// root is rejected.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Root not created yet: nothing to confine against.
	if _, err := os.Stat(v.paperDirectory); os.IsNotExist(err) {
		return nil
	}

	within, err := v.isWithinRoot(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside the paper directory: %s", path)
	}
	return nil
}

// ValidateDirectory checks that a directory path is inside the paper
// directory and, if it exists, actually is a directory.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}

// Normalize resolves a possibly relative path against the paper directory
// and validates the result.
func (v *PathValidator) Normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.paperDirectory, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (v *PathValidator) isWithinRoot(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(v.paperDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve paper directory: %w", err)
	}

	realPath := filepath.Clean(absPath)
	if resolved, err := filepath.EvalSymlinks(realPath); err == nil {
		realPath = resolved
	}
	realRoot := filepath.Clean(absRoot)
	if resolved, err := filepath.EvalSymlinks(realRoot); err == nil {
		realRoot = resolved
	}

	if realPath == realRoot {
		return true, nil
	}
	rootWithSep := realRoot
	if !strings.HasSuffix(rootWithSep, string(filepath.Separator)) {
		rootWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(realPath, rootWithSep), nil
}
