package libcell

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

var errorTemplate = template.Must(template.New("error").Parse(`Timestamp: {{.Timestamp}}
Code: {{.ECode}}
{{if .Message }}Message: {{.Message}}{{end}}
`))

// newGenericError wraps err with the given code. An err that already
// carries a code passes through unchanged, so the first classification
// of a failure wins.
func newGenericError(err error, c ErrorCode) Error {
	if le, ok := err.(Error); ok {
		return le
	}
	gerr := &genericError{
		Timestamp: time.Now(),
		Err:       err,
		ECode:     c,
	}
	if err != nil {
		gerr.Message = err.Error()
	} else {
		gerr.Message = c.String()
	}
	return gerr
}

func newSystemError(err error) Error {
	return newGenericError(err, SystemError)
}

// newSystemErrorWithCause names the operation that failed so kernel
// errors keep their originating call for diagnostics.
func newSystemErrorWithCause(err error, cause string) Error {
	gerr := &genericError{
		Timestamp: time.Now(),
		Err:       err,
		ECode:     SystemError,
		Message:   fmt.Sprintf("%s: %v", cause, err),
	}
	return gerr
}

type genericError struct {
	Timestamp time.Time
	ECode     ErrorCode
	Err       error `json:"-"`
	Message   string
}

func (e *genericError) Error() string {
	return e.Message
}

func (e *genericError) Code() ErrorCode {
	return e.ECode
}

func (e *genericError) Detail(w io.Writer) error {
	return errorTemplate.Execute(w, e)
}

func (e *genericError) Unwrap() error {
	return e.Err
}
