// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fruerr defines the small enumerated error taxonomy that every
// public entry point in this module returns errors from.
package fruerr

import "fmt"

// Code is one of the enumerated error categories that a public entry
// point may return.
type Code string

const (
	InvalidArgument  = Code("invalid_argument")
	NotImplemented   = Code("not_implemented")
	NotFound         = Code("not_found")
	AlreadyExists    = Code("already_exists")
	TooBig           = Code("too_big")
	OutOfSpace       = Code("out_of_space")
	OutOfMemory      = Code("out_of_memory")
	BadFormat        = Code("bad_format")
	PermissionDenied = Code("permission_denied")
)

// Error makes a bare Code usable directly as an errors.Is target,
// e.g. errors.Is(err, fruerr.OutOfSpace).
func (c Code) Error() string { return string(c) }

// sentinel lets callers do `errors.Is(err, fruerr.OutOfSpace)` without
// a dedicated sentinel value per call site.
type sentinel struct {
	code Code
}

func (s sentinel) Error() string { return string(s.code) }

// Is implements the interface consulted by errors.Is: any *wrapped
// error built with the same Code compares equal to the bare Code
// value used as a target.
func (s sentinel) Is(target error) bool {
	if t, ok := target.(sentinel); ok {
		return t.code == s.code
	}
	if t, ok := target.(Code); ok {
		return t == s.code
	}
	return false
}

// Is makes comparisons symmetric when a bare Code is itself the error
// being inspected rather than the target.
func (c Code) Is(target error) bool {
	return sentinel{code: c}.Is(target)
}

type wrapped struct {
	code Code
	op   string
	err  error
}

func (e *wrapped) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", e.op, e.code)
	}
	return fmt.Sprintf("%s: %s: %v", e.op, e.code, e.err)
}

func (e *wrapped) Unwrap() error { return e.err }

func (e *wrapped) Is(target error) bool {
	return sentinel{code: e.code}.Is(target)
}

// New builds an error tagged with code, attributed to op (typically the
// public entry point name).
func New(code Code, op, msg string) error {
	return &wrapped{code: code, op: op, err: fmt.Errorf("%s", msg)}
}

// Errorf is like New but with fmt.Errorf-style formatting, including
// %w to wrap a lower-level cause.
func Errorf(code Code, op, format string, args ...any) error {
	return &wrapped{code: code, op: op, err: fmt.Errorf(format, args...)}
}

// Wrap tags an existing error with a code and operation name.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{code: code, op: op, err: err}
}
