// Package lib contains the core, reusable services for the degit application.
package lib

import "errors"

// Code is the machine-readable classification of a degit failure.
type Code string

const (
	CodeBadSrc           Code = "BAD_SRC"
	CodeUnsupportedHost  Code = "UNSUPPORTED_HOST"
	CodeBadRef           Code = "BAD_REF"
	CodeCouldNotFetch    Code = "COULD_NOT_FETCH"
	CodeMissingRef       Code = "MISSING_REF"
	CodeCouldNotDownload Code = "COULD_NOT_DOWNLOAD"
	CodeCacheMiss        Code = "CACHE_MISS"
	CodeMissingGit       Code = "MISSING_GIT"
	CodeDestNotEmpty     Code = "DEST_NOT_EMPTY"
	CodeNoFiles          Code = "NO_FILES"
	CodeFileDoesNotExist Code = "FILE_DOES_NOT_EXIST"
)

// Error is the single tagged error kind used by the core. It carries a
// machine-readable code plus optional ref, url and original-cause context.
type Error struct {
	Code    Code
	Message string
	Ref     string
	URL     string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with just a code and a message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the degit code from err, or "" if err does not wrap an
// *Error.
func CodeOf(err error) Code {
	var degitErr *Error
	if errors.As(err, &degitErr) {
		return degitErr.Code
	}
	return ""
}
