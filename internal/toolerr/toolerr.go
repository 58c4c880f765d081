// Package toolerr turns tour errors into machine-readable tool results.
package toolerr

import (
	"encoding/json"
	"errors"

	"github.com/petasbytes/codetour-mcp/tour"
)

const (
	CodeNotFound         = "ERR_NOT_FOUND"
	CodeParse            = "ERR_PARSE"
	CodeIndexOutOfRange  = "ERR_INDEX_OUT_OF_RANGE"
	CodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	CodeUnknownOperation = "ERR_UNKNOWN_OPERATION"
	CodeInvalidInput     = "ERR_INVALID_INPUT"
	CodeIO               = "ERR_IO"
)

// ToolError is a machine-readable error body for surfacing back to the agent as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool results small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

var codes = []struct {
	target error
	code   string
}{
	{tour.ErrNotFound, CodeNotFound},
	{tour.ErrParse, CodeParse},
	{tour.ErrIndexOutOfRange, CodeIndexOutOfRange},
	{tour.ErrAlreadyExists, CodeAlreadyExists},
	{tour.ErrUnknownOperation, CodeUnknownOperation},
	{tour.ErrInvalidInput, CodeInvalidInput},
}

// From converts err into a ToolError. An err that already is one is returned
// as is; anything outside the tour taxonomy is reported as ERR_IO.
func From(err error) ToolError {
	var te ToolError
	if errors.As(err, &te) {
		return te
	}
	code := CodeIO
	for _, c := range codes {
		if errors.Is(err, c.target) {
			code = c.code
			break
		}
	}
	return ToolError{Code: code, Message: err.Error()}
}

// Code reports the tool error code for err, or "" when err is nil.
func Code(err error) string {
	if err == nil {
		return ""
	}
	return From(err).Code
}
