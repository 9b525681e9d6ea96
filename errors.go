/*
 * errors.go, part of fftype.
 *
 *
 * Copyright 2024 The fftype authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package fftype

import (
	"errors"
	"fmt"
	"strings"
)

//Error kinds. Every error returned by this package matches one
//of them with errors.Is.
var (
	ErrUnparsableInput        = errors.New("unparsable input")
	ErrPlaceholderExhausted   = errors.New("no free placeholder element for hydrogens")
	ErrPattern                = errors.New("invalid pattern")
	ErrMissingChargeParameter = errors.New("missing charge parameter")
)

// Error is the error type for this package. It fulfills Decorator.
type Error struct {
	message  string
	kind     error
	cause    error
	deco     []string
	critical bool
}

func newError(kind error, msg string, cause error, critical bool) *Error {
	return &Error{message: msg, kind: kind, cause: cause, critical: critical}
}

func (E *Error) Error() string {
	var b strings.Builder
	b.WriteString(E.kind.Error())
	if E.message != "" {
		b.WriteString(": ")
		b.WriteString(E.message)
	}
	if E.cause != nil {
		b.WriteString(": ")
		b.WriteString(E.cause.Error())
	}
	return b.String()
}

// Decorate adds the caller to the decoration slice, and returns the slice.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Critical is true for errors that abort the whole typing request, false
// for those that only abort the charge step.
func (E *Error) Critical() bool {
	return E.critical
}

// Unwrap gives access to both the kind and the underlying cause.
func (E *Error) Unwrap() []error {
	if E.cause == nil {
		return []error{E.kind}
	}
	return []error{E.kind, E.cause}
}

//errDecorate adds the caller to err if err is a Decorator.
//Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var d Decorator
	if errors.As(err, &d) {
		d.Decorate(caller)
	}
	return err
}

// MissingChargeParameterError describes which parameter was not found.
type MissingChargeParameterError struct {
	Atom  int
	IType string
	JType string //empty when the base charge is the one missing
}

func (M MissingChargeParameterError) Error() string {
	if M.JType == "" {
		return fmt.Sprintf("no charge for atom type '%s' (atom %d)", M.IType, M.Atom)
	}
	return fmt.Sprintf("no bond increment for types '%s'-'%s' (atom %d)", M.IType, M.JType, M.Atom)
}
