package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/joelkehle/veridian-reports/internal/funnel"
	"github.com/joelkehle/veridian-reports/internal/pdf"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
)

const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRenderFailed = "render_failed"
	CodeInternal     = "internal"
)

type Error struct {
	Code     string
	Message  string
	Status   int
	Problems []report.FieldProblem
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRenderFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

// apiError classifies a funnel error for the wire. Unclassified errors get a
// generic message; the caller logs the detail.
func apiError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *report.ValidationError
	switch {
	case errors.As(err, &ve):
		e := newError(CodeValidation, ve.Error())
		e.Problems = ve.Problems
		return e
	case errors.Is(err, store.ErrNotFound):
		return newError(CodeNotFound, "report not found")
	case errors.Is(err, funnel.ErrNotReady), errors.Is(err, store.ErrNotGenerating):
		return newError(CodeConflict, err.Error())
	case errors.Is(err, pdf.ErrInvalidReport):
		return newError(CodeRenderFailed, err.Error())
	default:
		return newError(CodeInternal, "internal error")
	}
}
