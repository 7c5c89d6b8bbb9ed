// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lookup provides the resolution backends used by hostcache.
package lookup

import (
	"errors"
	"fmt"
	"net"

	"github.com/dullgiulio/hostcache/cfg"
)

// Code is the status a backend reports when a query fails. The values
// mirror the classic netdb resolver codes.
type Code int

const (
	CodeHostNotFound Code = 1 + iota // HOST_NOT_FOUND
	CodeTryAgain                     // TRY_AGAIN
	CodeNoRecovery                   // NO_RECOVERY
	CodeNoData                       // NO_DATA
	CodeSysNotReady                  // network subsystem not ready
	CodeNotInitialized               // network subsystem not initialized
)

// Error is a failed query together with its backend status code.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup failed with code %d: %s", e.Code, e.Err)
	}
	return fmt.Sprintf("lookup failed with code %d", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the raw answer to a forward lookup, before any caching or
// normalization.
type Result struct {
	// Name is the canonical name. May be empty if the backend
	// cannot determine it.
	Name    string
	Aliases []string
	Addrs   []net.IP
}

// A Lookuper resolves names to addresses and addresses back to names.
// LookupHost must return a non-nil error when it yields no addresses.
type Lookuper interface {
	LookupHost(name string) (Result, error)
	LookupAddr(ip net.IP) (string, error)
}

var ErrInvalidLookuper = errors.New("invalid lookuper name")

// MakeLookuper builds the backend named by name, configured from conf.
func MakeLookuper(name string, conf *cfg.Config) (Lookuper, error) {
	switch name {
	case "system":
		return System{}, nil
	case "dns":
		return newDNS(conf)
	case "static":
		return newStatic(conf)
	case "hosts":
		return newHostsfile(conf)
	case "mysql":
		return newMysql(conf)
	default:
		return nil, ErrInvalidLookuper
	}
}
