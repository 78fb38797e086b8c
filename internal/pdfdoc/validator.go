package pdfdoc

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidateResult describes the outcome of validating one document.
type ValidateResult struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	Encrypted bool   `json:"encrypted"`
	PageCount int    `json:"page_count,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	Message   string `json:"message"`
}

// Validator checks that a file is a structurally readable PDF within the
// configured size limit.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the specified size constraint.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile validates a PDF file. Validation failures are reported in
// the result, not returned as errors.
func (v *Validator) ValidateFile(path string) (*ValidateResult, error) {
	result := &ValidateResult{Path: path}

	src, err := FromPath(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}
	result.FileSize = src.Size()

	if result.FileSize > v.maxFileSize {
		result.Message = fmt.Sprintf("file too large: %d bytes (max: %d bytes)", result.FileSize, v.maxFileSize)
		return result, nil
	}

	f, err := os.Open(path)
	if err != nil {
		result.Message = fmt.Sprintf("cannot open file: %v", err)
		return result, nil
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		result.Message = fmt.Sprintf("invalid PDF structure: %v", err)
		return result, nil
	}

	if ctx.Encrypt != nil {
		result.Encrypted = true
		result.Message = "document is encrypted"
		return result, nil
	}

	if err := ctx.EnsurePageCount(); err != nil {
		result.Message = fmt.Sprintf("cannot determine page count: %v", err)
		return result, nil
	}
	result.PageCount = ctx.PageCount
	if result.PageCount == 0 {
		result.Message = "document has no pages"
		return result, nil
	}

	result.Valid = true
	result.Message = fmt.Sprintf("valid PDF with %d pages", result.PageCount)
	return result, nil
}
