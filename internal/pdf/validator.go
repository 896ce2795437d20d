package pdf

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// Validator checks that a file is a structurally readable PDF using pdfcpu
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Validate reads the PDF cross-reference structure and page tree
func (v *Validator) Validate(filePath string) (*DocumentInfo, error) {
	fileInfo, err := checkFile(filePath, v.maxFileSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, errors.Wrap(err, "invalid PDF file")
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, errors.Wrap(err, "failed to read page count")
	}

	return &DocumentInfo{
		Path:  filePath,
		Pages: ctx.PageCount,
		Size:  fileInfo.Size(),
	}, nil
}

// ValidateFile reports validation problems in the result rather than as an error
func (v *Validator) ValidateFile(filePath string) *PDFValidateFileResult {
	result := &PDFValidateFileResult{
		Path:  filePath,
		Valid: false,
	}

	info, err := v.Validate(filePath)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = info.Pages
	return result
}
