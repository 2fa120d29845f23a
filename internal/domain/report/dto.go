package report

import (
	"github.com/presenzelab/presenze-backend-go/internal/pkg/validator"
)

const (
	FormatTXT = "txt"
	FormatCSV = "csv"
)

type ExportRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Format string `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a YYYY-MM-DD date",
		})
	}

	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a YYYY-MM-DD date",
		})
	}

	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if r.Format == "" {
		r.Format = FormatTXT
	}
	if !validator.IsInSlice(r.Format, []string{FormatTXT, FormatCSV}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be 'txt' or 'csv'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExportResponse struct {
	ContentType string
	Filename    string
	Body        []byte
}
