package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SanitizeOutputPath returns the cleaned absolute form of an output path.
// Existing symlinks are rejected; paths that do not exist yet are accepted
// so a document can be written to a new file.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: resolving output path: %w", err)
	}

	info, err := os.Lstat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("pathutil: checking output path: %w", err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
	}
	return abs, nil
}
