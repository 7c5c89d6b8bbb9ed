// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostcache

import (
	"net"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dullgiulio/hostcache/lookup"
)

// Resolver answers name and address queries through a lookup backend,
// caching successful results until the cache is flushed. Calls block
// for the duration of the backend query; the cache lock is not held
// while a query is in flight, so concurrent misses for the same key
// may each query the backend, with the first stored entry winning.
type Resolver struct {
	lk       lookup.Lookuper
	cache    *cache
	hostname func() (string, error)
}

// NewResolver makes a Resolver using lk. A nil lk means the system
// backend.
func NewResolver(lk lookup.Lookuper) *Resolver {
	if lk == nil {
		lk = lookup.System{}
	}
	return &Resolver{
		lk:       lk,
		cache:    newCache(),
		hostname: os.Hostname,
	}
}

// HostByName resolves name to a host entry, preferring the cache.
func (r *Resolver) HostByName(name string) (HostEntry, error) {
	if e, ok := r.cache.lookup(name); ok {
		return e, nil
	}
	log.Debugf("resolver: cache miss for %q", name)
	res, err := r.lk.LookupHost(name)
	if err != nil {
		return HostEntry{}, translateError(err, name)
	}
	return r.cache.insert(name, makeHostEntry(res)), nil
}

// HostByAddr resolves ip to a host entry. The entry is cached under
// the canonical name the reverse lookup returns, not under the
// address, since many addresses can map to one host. When that name
// is not yet cached, a forward lookup fills in the full address list;
// a forward failure after a successful reverse lookup surfaces the
// forward lookup's own error, never a name-only entry.
func (r *Resolver) HostByAddr(ip net.IP) (HostEntry, error) {
	cname, err := r.lk.LookupAddr(ip)
	if err != nil {
		return HostEntry{}, translateError(err, ip.String())
	}
	cname = strings.TrimSuffix(cname, ".")
	if e, ok := r.cache.lookup(cname); ok {
		return e, nil
	}
	log.Debugf("resolver: cache miss for %q (reverse of %s)", cname, ip)
	res, err := r.lk.LookupHost(cname)
	if err != nil {
		return HostEntry{}, translateError(err, cname)
	}
	return r.cache.insert(cname, makeHostEntry(res)), nil
}

// Resolve resolves host, which can be a host name or a literal IP
// address. Literal addresses take the reverse path, everything else
// the forward path.
func (r *Resolver) Resolve(host string) (HostEntry, error) {
	if ip := net.ParseIP(host); ip != nil {
		return r.HostByAddr(ip)
	}
	return r.HostByName(host)
}

// FirstAddress resolves host and returns the first of its addresses,
// in backend order.
func (r *Resolver) FirstAddress(host string) (net.IP, error) {
	e, err := r.Resolve(host)
	if err != nil {
		return nil, err
	}
	if len(e.addrs) == 0 {
		return nil, &Error{Kind: NoAddressFound, Subject: host}
	}
	return e.addrs[0], nil
}

// ThisHost resolves the local machine's own host name.
func (r *Resolver) ThisHost() (HostEntry, error) {
	name, err := r.hostname()
	if err != nil {
		return HostEntry{}, &Error{Kind: IOFailure, Subject: "localhost", Err: err}
	}
	return r.HostByName(name)
}

// FlushCache drops every cached entry. Entries already returned to
// callers stay valid.
func (r *Resolver) FlushCache() {
	r.cache.clear()
}

// DefaultResolver resolves through the system backend.
var DefaultResolver = NewResolver(nil)

// Resolve calls DefaultResolver.Resolve.
func Resolve(host string) (HostEntry, error) {
	return DefaultResolver.Resolve(host)
}

// HostByName calls DefaultResolver.HostByName.
func HostByName(name string) (HostEntry, error) {
	return DefaultResolver.HostByName(name)
}

// HostByAddr calls DefaultResolver.HostByAddr.
func HostByAddr(ip net.IP) (HostEntry, error) {
	return DefaultResolver.HostByAddr(ip)
}

// FirstAddress calls DefaultResolver.FirstAddress.
func FirstAddress(host string) (net.IP, error) {
	return DefaultResolver.FirstAddress(host)
}

// ThisHost calls DefaultResolver.ThisHost.
func ThisHost() (HostEntry, error) {
	return DefaultResolver.ThisHost()
}

// FlushCache calls DefaultResolver.FlushCache.
func FlushCache() {
	DefaultResolver.FlushCache()
}
