// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure. Handlers map kinds to HTTP statuses.
type Kind int

const (
	// KindValidation means the request input was missing or empty.
	KindValidation Kind = iota + 1
	// KindConfiguration means a required credential is absent.
	KindConfiguration
	// KindRateLimit means the provider kept throttling after every retry.
	KindRateLimit
	// KindProvider means an upstream call failed for another reason.
	KindProvider
	// KindMalformed means the provider answered with unusable content.
	KindMalformed
	// KindUnavailable means every backend in a chain failed.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindRateLimit:
		return "rate_limit"
	case KindProvider:
		return "provider"
	case KindMalformed:
		return "malformed_response"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Error is the single error type returned by the generators. Msg is safe
// to show to clients; Err carries the upstream cause for logs and details.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, so errors.Is(err, &Error{Kind: K})
// tests the classification.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Details returns the upstream cause text, or "" when there is none.
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// KindOf returns the Kind of err, or 0 when err is not a generator error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func configurationError(op, msg string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Msg: msg}
}
