package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("expected error for empty directory")
	}

	v, err := NewPathValidator("/papers")
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}
	if v.PaperDirectory() != "/papers" {
		t.Errorf("PaperDirectory() = %s", v.PaperDirectory())
	}
}

func TestValidatePath(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "paper.pdf")
	if err := os.WriteFile(inside, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}

	if err := v.ValidatePath(inside); err != nil {
		t.Errorf("path inside root rejected: %v", err)
	}
	if err := v.ValidatePath(root); err != nil {
		t.Errorf("root itself rejected: %v", err)
	}
	if err := v.ValidatePath(""); err == nil {
		t.Error("expected error for empty path")
	}
	if err := v.ValidatePath("/etc/passwd"); err == nil {
		t.Error("expected error for path outside root")
	}
	if err := v.ValidatePath(filepath.Join(root, "..", "escape.pdf")); err == nil {
		t.Error("expected error for traversal path")
	}
}

func TestValidatePathNonexistentRoot(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "not_created_yet"))
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}
	// Validation is skipped until the root exists.
	if err := v.ValidatePath("/anywhere/file.pdf"); err != nil {
		t.Errorf("expected path to pass with missing root: %v", err)
	}
}

func TestValidatePathSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	if err := os.WriteFile(target, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}
	if err := v.ValidatePath(link); err == nil {
		t.Error("expected symlink pointing outside root to be rejected")
	}
}

func TestValidateDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "incoming")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	file := filepath.Join(root, "paper.pdf")
	if err := os.WriteFile(file, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}

	if err := v.ValidateDirectory(sub); err != nil {
		t.Errorf("subdirectory rejected: %v", err)
	}
	if err := v.ValidateDirectory(filepath.Join(root, "future")); err != nil {
		t.Errorf("not-yet-created directory rejected: %v", err)
	}
	if err := v.ValidateDirectory(file); err == nil {
		t.Error("expected error for file path")
	}
}

func TestNormalize(t *testing.T) {
	root := t.TempDir()
	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("NewPathValidator failed: %v", err)
	}

	got, err := v.Normalize("paper.pdf")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := filepath.Join(root, "paper.pdf")
	if got != want {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}

	if _, err := v.Normalize(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := v.Normalize("/etc/passwd"); err == nil {
		t.Error("expected error for absolute path outside root")
	}
}
