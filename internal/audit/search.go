package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search discovers PDF papers under a directory tree.
type Search struct {
	maxFileSize int64
}

// NewSearch creates a search handler with the specified size constraint.
func NewSearch(maxFileSize int64) *Search {
	return &Search{maxFileSize: maxFileSize}
}

// SearchDirectory walks the directory tree and lists every PDF whose name
// matches the optional query. Unreadable entries are skipped, never fatal.
func (s *Search) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDir, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	files := make([]FileInfo, 0)
	var totalSize int64

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Skip unreadable entries, keep walking
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			return nil
		}
		if info.Size() == 0 || info.Size() > s.maxFileSize {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime(),
		})
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &SearchDirectoryResult{
		Directory:  absDir,
		Query:      req.Query,
		Files:      files,
		TotalCount: len(files),
		TotalSize:  totalSize,
	}, nil
}

// CountPDFs returns the number of PDFs under a directory.
func (s *Search) CountPDFs(directory string) (int, error) {
	result, err := s.SearchDirectory(SearchDirectoryRequest{Directory: directory})
	if err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}
