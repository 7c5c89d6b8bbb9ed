// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostcache

import (
	"fmt"

	"github.com/dullgiulio/hostcache/lookup"
)

// ErrKind classifies a resolution failure.
type ErrKind int

const (
	// HostNotFound: the queried name or address has no record.
	HostNotFound ErrKind = iota
	// TemporaryFailure: transient resolver failure, retry may help.
	TemporaryFailure
	// NonRecoverableFailure: the resolver reported a permanent
	// failure distinct from not-found.
	NonRecoverableFailure
	// NoAddressFound: resolution succeeded but yielded no usable
	// address.
	NoAddressFound
	// SubsystemNotReady: the platform network subsystem is not
	// ready or not initialized.
	SubsystemNotReady
	// IOFailure: any failure not covered above; Code and Err carry
	// the raw diagnostics.
	IOFailure
)

// Error is a resolution failure tied to the name or address that was
// being resolved.
type Error struct {
	Kind    ErrKind
	Subject string
	Code    lookup.Code
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case HostNotFound:
		return "host not found: " + e.Subject
	case TemporaryFailure:
		return "temporary DNS error while resolving " + e.Subject
	case NonRecoverableFailure:
		return "non recoverable DNS error while resolving " + e.Subject
	case NoAddressFound:
		return "no address found for " + e.Subject
	case SubsystemNotReady:
		return "net subsystem not ready while resolving " + e.Subject
	}
	if e.Err != nil {
		return fmt.Sprintf("I/O error while resolving %s: %s", e.Subject, e.Err)
	}
	return fmt.Sprintf("I/O error while resolving %s: code %d", e.Subject, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// translateError maps a backend failure to the error taxonomy. All
// platform-code knowledge lives here; unrecognized codes and errors
// without a code fall through to IOFailure with the raw diagnostics.
func translateError(err error, subject string) error {
	lerr, ok := err.(*lookup.Error)
	if !ok {
		return &Error{Kind: IOFailure, Subject: subject, Err: err}
	}
	kind := IOFailure
	switch lerr.Code {
	case lookup.CodeHostNotFound:
		kind = HostNotFound
	case lookup.CodeTryAgain:
		kind = TemporaryFailure
	case lookup.CodeNoRecovery:
		kind = NonRecoverableFailure
	case lookup.CodeNoData:
		kind = NoAddressFound
	case lookup.CodeSysNotReady, lookup.CodeNotInitialized:
		kind = SubsystemNotReady
	}
	return &Error{Kind: kind, Subject: subject, Code: lerr.Code, Err: lerr.Err}
}
