package pdfdoc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// pdfMagic is the header every readable payload must start with.
var pdfMagic = []byte("%PDF-")

// Source is a resolved document input: either raw bytes held in memory or a
// path on disk. Exactly one of the two is set.
type Source struct {
	data []byte
	path string
}

// FromBytes wraps a raw PDF payload. The payload must begin with the PDF
// magic marker.
func FromBytes(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, NewInputError("empty payload", nil)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, NewInputError("payload does not start with %PDF magic marker", nil)
	}
	return &Source{data: data}, nil
}

// FromBase64 decodes a base64-encoded PDF payload.
func FromBase64(encoded string) (*Source, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, NewInputError("invalid base64 payload", err)
	}
	return FromBytes(decoded)
}

// FromPath wraps a filesystem path. The file must exist, be a regular file
// with a .pdf suffix, and carry the PDF magic marker.
func FromPath(path string) (*Source, error) {
	if path == "" {
		return nil, NewInputError("path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, NewInputError(fmt.Sprintf("file does not exist: %s", path), err)
	}
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return nil, NewInputError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, NewInputError(fmt.Sprintf("file is not a PDF: %s", path), nil)
	}
	if info.Size() == 0 {
		return nil, NewInputError(fmt.Sprintf("file is empty: %s", path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil || !bytes.HasPrefix(header, pdfMagic) {
		return nil, NewInputError(fmt.Sprintf("file does not start with %%PDF magic marker: %s", path), nil)
	}

	return &Source{path: path}, nil
}

// Path returns the filesystem path for path-backed sources, or empty.
func (s *Source) Path() string {
	return s.path
}

// Data returns the in-memory payload for byte-backed sources, or nil.
func (s *Source) Data() []byte {
	return s.data
}

// Size returns the payload size in bytes.
func (s *Source) Size() int64 {
	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			return info.Size()
		}
		return 0
	}
	return int64(len(s.data))
}
