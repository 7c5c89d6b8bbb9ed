// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostcache resolves host names and addresses through a
// pluggable lookup backend, caching successful results.
package hostcache

import (
	"fmt"
	"net"
	"strings"

	"github.com/dullgiulio/hostcache/lookup"
)

// A HostEntry is the resolved view of a single host: its canonical
// name, any alternate names and the addresses it answers on. Entries
// are immutable once built; accessors return copies.
type HostEntry struct {
	name    string
	aliases []string
	addrs   []net.IP
}

// makeHostEntry normalizes a raw lookup result: trailing dots are
// stripped, empty alias strings dropped.
func makeHostEntry(res lookup.Result) HostEntry {
	e := HostEntry{
		name:  strings.TrimSuffix(res.Name, "."),
		addrs: make([]net.IP, len(res.Addrs)),
	}
	copy(e.addrs, res.Addrs)
	for _, a := range res.Aliases {
		a = strings.TrimSuffix(a, ".")
		if a != "" && a != e.name {
			e.aliases = append(e.aliases, a)
		}
	}
	return e
}

// CanonicalName is the primary name reported by the backend. May be
// empty if the backend could not determine it.
func (e HostEntry) CanonicalName() string {
	return e.name
}

// Aliases returns the alternate names of the host.
func (e HostEntry) Aliases() []string {
	as := make([]string, len(e.aliases))
	copy(as, e.aliases)
	return as
}

// Addresses returns the addresses of the host, in backend order.
func (e HostEntry) Addresses() []net.IP {
	addrs := make([]net.IP, len(e.addrs))
	copy(addrs, e.addrs)
	return addrs
}

func (e HostEntry) String() string {
	return fmt.Sprintf("[%s: aliases %v, addresses %v]", e.name, e.aliases, e.addrs)
}
