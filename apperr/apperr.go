// Package apperr beschreibt fachliche Fehler mit einer Art (Kind), die die
// API-Schicht einmalig in HTTP-Status und Fehlercode übersetzt.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind klassifiziert einen Fehler unabhängig vom Transport.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
)

// String liefert den Fehlercode der API, z.B. "not_found".
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal_error"
	}
}

// Status liefert den HTTP-Status einer Art. Konflikte werden wie jede andere
// abgelehnte Änderung mit 400 gemeldet.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error trägt Art, Nachricht für den Client und optional die Ursache.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound erstellt einen 404-Fehler. Er deckt fehlende und fremde Ressourcen
// gleichermaßen ab; der Aufrufer erfährt nie, welcher Fall vorliegt.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Validation erstellt einen Eingabefehler mit formatierter Nachricht.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict meldet einen Widerspruch zum gespeicherten Zustand, etwa ein Duplikat
// oder eine noch verwendete Referenz.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Internal kapselt einen unerwarteten Fehler; die Nachricht geht nie an den Client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf liefert die Art von err. Fehler ohne *Error in der Kette gelten als intern.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
