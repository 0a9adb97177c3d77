package constants

import "net/http"

// CodedError carries the HTTP status the API layer answers with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrBadRequest     = NewCodedError(http.StatusBadRequest, "bad request")
	ErrDBNotFound     = NewCodedError(http.StatusNotFound, "not found in db")
	ErrEntityNotFound = NewCodedError(http.StatusNotFound, "entity not found")

	ErrSourceNotFound          = NewCodedError(http.StatusNotFound, "row source not found")
	ErrSourceMalformed         = NewCodedError(http.StatusInternalServerError, "row source malformed")
	ErrReferenceTableMalformed = NewCodedError(http.StatusInternalServerError, "reference table malformed")
	ErrNoDataProduced          = NewCodedError(http.StatusInternalServerError, "no data produced")
)
