// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// suffixLength is the number of random hex characters in generated names.
const suffixLength = 8

// filePermissions is used when a move falls back to copying.
const filePermissions = 0o644

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") || extension == "." || extension == ".." {
		return ErrExtensionPathTraversal
	}
	return nil
}

// Stem returns the base name of path without its last extension.
//
// Examples:
//   - "/tmp/report.pdf" -> "report"
//   - "archive.tar.gz" -> "archive.tar"
//   - "README" -> "README"
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BaseStem is Stem without the random part added by RandomName, so an
// intermediate "report.1a2b3c4d.html" yields "report".
func BaseStem(path string) string {
	stem := Stem(path)
	dot := len(stem) - suffixLength - 1
	if dot <= 0 || stem[dot] != '.' || !isLowerHex(stem[dot+1:]) {
		return stem
	}
	return stem[:dot]
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// RandomSuffix returns a short random hex string.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}

// RandomName returns dir/stem.<random>.extension.
// The name is not reserved on disk; callers rely on the random part
// to avoid collisions with concurrent runs.
func RandomName(dir, stem, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	return filepath.Join(dir, stem+"."+RandomSuffix()+"."+extension), nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SamePath reports whether a and b name the same file after cleaning.
// Relative paths are resolved against the working directory.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// MoveFile renames src to dst, copying then removing src when a rename is
// not possible (for example across filesystems).
func MoveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", src, dst, errors.Join(renameErr, err))
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

// copyFile copies src to dst, truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src is a pipeline artifact
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions) // #nosec G304 -- dst is user-provided output
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
