// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostcache

import (
	"net"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dullgiulio/hostcache/lookup"
)

// countingLookuper wraps a Lookuper and counts backend queries.
type countingLookuper struct {
	lk      lookup.Lookuper
	forward int32
	reverse int32
	delay   time.Duration
}

func (c *countingLookuper) LookupHost(name string) (lookup.Result, error) {
	atomic.AddInt32(&c.forward, 1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.lk.LookupHost(name)
}

func (c *countingLookuper) LookupAddr(ip net.IP) (string, error) {
	atomic.AddInt32(&c.reverse, 1)
	return c.lk.LookupAddr(ip)
}

func testLookuper() *countingLookuper {
	return &countingLookuper{
		lk: lookup.NewStatic(map[string][]net.IP{
			"one.host.test": {net.ParseIP("192.0.2.1"), net.ParseIP("192.0.2.2")},
			"two.host.test": {net.ParseIP("192.0.2.3")},
		}),
	}
}

func TestHostByNameCaches(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	e1, err := r.HostByName("one.host.test")
	if err != nil {
		t.Fatalf("cannot resolve one.host.test: %s", err)
	}
	e2, err := r.HostByName("one.host.test")
	if err != nil {
		t.Fatalf("cannot resolve one.host.test again: %s", err)
	}
	if lk.forward != 1 {
		t.Errorf("expected one backend query, got %d", lk.forward)
	}
	if !reflect.DeepEqual(e1, e2) {
		t.Errorf("cached entry %s differs from first entry %s", e2, e1)
	}
	if e1.CanonicalName() != "one.host.test" {
		t.Errorf("unexpected canonical name %q", e1.CanonicalName())
	}
}

func TestFlushCacheForcesNewQuery(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	if _, err := r.HostByName("one.host.test"); err != nil {
		t.Fatalf("cannot resolve one.host.test: %s", err)
	}
	r.FlushCache()
	if _, err := r.HostByName("one.host.test"); err != nil {
		t.Fatalf("cannot resolve one.host.test after flush: %s", err)
	}
	if lk.forward != 2 {
		t.Errorf("expected two backend queries around a flush, got %d", lk.forward)
	}
}

func TestResolveRouting(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	if _, err := r.Resolve("192.0.2.1"); err != nil {
		t.Fatalf("cannot resolve literal address: %s", err)
	}
	if lk.reverse != 1 {
		t.Errorf("literal address should take the reverse path, got %d reverse queries", lk.reverse)
	}
	if _, err := r.Resolve("two.host.test"); err != nil {
		t.Fatalf("cannot resolve name: %s", err)
	}
	if lk.reverse != 1 {
		t.Errorf("name should take the forward path, got %d reverse queries", lk.reverse)
	}
}

func TestHostByAddrKeysByCanonicalName(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	e, err := r.HostByAddr(net.ParseIP("192.0.2.1"))
	if err != nil {
		t.Fatalf("cannot resolve address: %s", err)
	}
	if e.CanonicalName() != "one.host.test" {
		t.Errorf("unexpected canonical name %q", e.CanonicalName())
	}
	if len(e.Addresses()) != 2 {
		t.Errorf("expected the full address list, got %v", e.Addresses())
	}
	// The entry is keyed under the canonical name: a forward lookup
	// for it must hit the cache.
	forward := lk.forward
	if _, err := r.HostByName("one.host.test"); err != nil {
		t.Fatalf("cannot resolve canonical name: %s", err)
	}
	if lk.forward != forward {
		t.Errorf("expected a cache hit for the canonical name, got %d new queries", lk.forward-forward)
	}
}

func TestHostByAddrCachedCanonicalSkipsForward(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	if _, err := r.HostByName("one.host.test"); err != nil {
		t.Fatalf("cannot resolve one.host.test: %s", err)
	}
	forward := lk.forward
	if _, err := r.HostByAddr(net.ParseIP("192.0.2.1")); err != nil {
		t.Fatalf("cannot resolve address: %s", err)
	}
	if lk.forward != forward {
		t.Errorf("reverse lookup with cached canonical name should not query forward, got %d new queries", lk.forward-forward)
	}
	if lk.reverse != 1 {
		t.Errorf("expected one reverse query, got %d", lk.reverse)
	}
}

// failingForward answers reverse queries but fails every forward one.
type failingForward struct{}

func (failingForward) LookupHost(name string) (lookup.Result, error) {
	return lookup.Result{}, &lookup.Error{Code: lookup.CodeTryAgain}
}

func (failingForward) LookupAddr(ip net.IP) (string, error) {
	return "gone.host.test", nil
}

func TestHostByAddrForwardFailureSurfaces(t *testing.T) {
	r := NewResolver(failingForward{})

	_, err := r.HostByAddr(net.ParseIP("192.0.2.9"))
	if err == nil {
		t.Fatal("expected an error when the forward fill-in fails")
	}
	herr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if herr.Kind != TemporaryFailure {
		t.Errorf("expected the forward lookup's own kind, got %d", herr.Kind)
	}
	if herr.Subject != "gone.host.test" {
		t.Errorf("expected the canonical name as subject, got %q", herr.Subject)
	}
	if r.cache.len() != 0 {
		t.Errorf("no name-only entry may be cached, cache has %d entries", r.cache.len())
	}
}

func TestFirstAddress(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)

	ip, err := r.FirstAddress("one.host.test")
	if err != nil {
		t.Fatalf("cannot resolve first address: %s", err)
	}
	if !ip.Equal(net.ParseIP("192.0.2.1")) {
		t.Errorf("expected the first backend address, got %s", ip)
	}
}

func TestFirstAddressEmpty(t *testing.T) {
	r := NewResolver(nil)
	// Bypass resolution: an entry without addresses can only come
	// from the cache, successful lookups always carry at least one.
	r.cache.insert("empty.host.test", HostEntry{name: "empty.host.test"})

	_, err := r.FirstAddress("empty.host.test")
	herr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if herr.Kind != NoAddressFound {
		t.Errorf("expected NoAddressFound, got %d", herr.Kind)
	}
	if herr.Subject != "empty.host.test" {
		t.Errorf("expected the queried name as subject, got %q", herr.Subject)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(testLookuper())

	_, err := r.HostByName("missing.host.test")
	herr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if herr.Kind != HostNotFound {
		t.Errorf("expected HostNotFound, got %d", herr.Kind)
	}
	if herr.Subject != "missing.host.test" {
		t.Errorf("expected the queried name as subject, got %q", herr.Subject)
	}
}

func TestThisHost(t *testing.T) {
	lk := testLookuper()
	r := NewResolver(lk)
	r.hostname = func() (string, error) { return "one.host.test", nil }

	e, err := r.ThisHost()
	if err != nil {
		t.Fatalf("cannot resolve this host: %s", err)
	}
	if e.CanonicalName() != "one.host.test" {
		t.Errorf("unexpected canonical name %q", e.CanonicalName())
	}
}

func TestConcurrentResolveSingleEntry(t *testing.T) {
	lk := testLookuper()
	lk.delay = 10 * time.Millisecond
	r := NewResolver(lk)

	const n = 8
	entries := make([]HostEntry, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			e, err := r.HostByName("one.host.test")
			if err != nil {
				t.Errorf("cannot resolve one.host.test: %s", err)
				return
			}
			entries[i] = e
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if !reflect.DeepEqual(entries[0], entries[i]) {
			t.Errorf("entry %d (%s) differs from entry 0 (%s)", i, entries[i], entries[0])
		}
	}
	if r.cache.len() != 1 {
		t.Errorf("expected exactly one cached entry, got %d", r.cache.len())
	}
}

func TestHostEntryImmutable(t *testing.T) {
	r := NewResolver(testLookuper())

	e, err := r.HostByName("one.host.test")
	if err != nil {
		t.Fatalf("cannot resolve one.host.test: %s", err)
	}
	addrs := e.Addresses()
	addrs[0] = net.ParseIP("198.51.100.1")

	again, _ := r.HostByName("one.host.test")
	if !again.Addresses()[0].Equal(net.ParseIP("192.0.2.1")) {
		t.Error("mutating a returned address list changed the cached entry")
	}
}
