// Package apperr defines the closed set of errors returned by note and font commands.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies an error category on the wire.
type Kind string

// Error kinds.
const (
	KindFileNotFound          Kind = "file_not_found"
	KindInvalidFolder         Kind = "invalid_folder"
	KindAccessDenied          Kind = "access_denied"
	KindInvalidFileName       Kind = "invalid_file_name"
	KindNotMarkdownFile       Kind = "not_markdown_file"
	KindIO                    Kind = "io_error"
	KindDialogCancelled       Kind = "dialog_cancelled"
	KindUnsupportedFontFormat Kind = "unsupported_font_format"
	KindFileTooLarge          Kind = "file_too_large"
	KindPath                  Kind = "path_error"
)

// Error is a typed command error. It serializes as {"kind": ..., "message": ...}.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrFileNotFound          = &Error{Kind: KindFileNotFound}
	ErrInvalidFolder         = &Error{Kind: KindInvalidFolder}
	ErrAccessDenied          = &Error{Kind: KindAccessDenied}
	ErrInvalidFileName       = &Error{Kind: KindInvalidFileName}
	ErrNotMarkdownFile       = &Error{Kind: KindNotMarkdownFile}
	ErrIO                    = &Error{Kind: KindIO}
	ErrDialogCancelled       = &Error{Kind: KindDialogCancelled}
	ErrUnsupportedFontFormat = &Error{Kind: KindUnsupportedFontFormat}
	ErrFileTooLarge          = &Error{Kind: KindFileTooLarge}
	ErrPath                  = &Error{Kind: KindPath}
)

// KindOf returns the kind of err, or KindIO for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// As converts err into an *Error, wrapping foreign errors as io_error.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return IO(err)
}

// FileNotFound reports a missing or non-regular file.
func FileNotFound(path string) *Error {
	return &Error{Kind: KindFileNotFound, Message: fmt.Sprintf("File not found: %s", path)}
}

// InvalidFolder reports a working folder that is blank or not a directory.
func InvalidFolder(path string) *Error {
	return &Error{Kind: KindInvalidFolder, Message: fmt.Sprintf("Invalid folder path: %s", path)}
}

// AccessDenied reports a path outside the working folder.
func AccessDenied(path string) *Error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf("Access denied: %s is outside the working folder", path)}
}

// InvalidFileName reports a rejected or already taken note name.
func InvalidFileName(reason string) *Error {
	return &Error{Kind: KindInvalidFileName, Message: fmt.Sprintf("Invalid file name: %s", reason)}
}

// NotMarkdownFile reports a path without the .md extension.
func NotMarkdownFile(path string) *Error {
	return &Error{Kind: KindNotMarkdownFile, Message: fmt.Sprintf("Not a markdown file: %s", path)}
}

// IO wraps an underlying filesystem failure. A nil err yields nil.
func IO(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Message: fmt.Sprintf("IO error: %v", err), cause: err}
}

// DialogCancelled reports a picker that was dismissed or could not open.
func DialogCancelled(reason string) *Error {
	msg := "Dialog cancelled"
	if reason != "" {
		msg += ": " + reason
	}
	return &Error{Kind: KindDialogCancelled, Message: msg}
}

// UnsupportedFontFormat reports a font extension outside the accepted set.
func UnsupportedFontFormat(ext string) *Error {
	return &Error{Kind: KindUnsupportedFontFormat, Message: fmt.Sprintf("Unsupported font format: %q (allowed: ttf, otf, woff, woff2)", ext)}
}

// FileTooLarge reports a size violation; both values are in megabytes.
func FileTooLarge(limitMB, actualMB uint64) *Error {
	return &Error{Kind: KindFileTooLarge, Message: fmt.Sprintf("File too large: %d MB exceeds the %d MB limit", actualMB, limitMB)}
}

// PathError reports an unresolvable data directory or an escaping font name.
func PathError(reason string) *Error {
	return &Error{Kind: KindPath, Message: fmt.Sprintf("Path error: %s", reason)}
}
