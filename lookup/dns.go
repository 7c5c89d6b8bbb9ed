// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lookup

import (
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/dullgiulio/hostcache/cfg"
)

const resolvConf = "/etc/resolv.conf"

// DNS queries a single DNS server directly instead of going through
// the platform resolver.
type DNS struct {
	server  string
	client  *dns.Client
	once    sync.Once
	conferr error
}

// NewDNS makes a backend querying server, given as host:port. An empty
// server means the first nameserver from resolv.conf, loaded lazily.
func NewDNS(server string, timeout time.Duration) *DNS {
	return &DNS{
		server: server,
		client: &dns.Client{Timeout: timeout},
	}
}

func newDNS(conf *cfg.Config) (*DNS, error) {
	timeout := 5 * time.Second
	if v, ok := conf.Get("config.timeout"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		timeout = d
	}
	return NewDNS(conf.GetVal("config.server", ""), timeout), nil
}

// ensureConfig fills in the server from resolv.conf when none was
// configured. Runs at most once; later calls return the same outcome.
func (d *DNS) ensureConfig() error {
	d.once.Do(func() {
		if d.server != "" {
			return
		}
		cc, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			d.conferr = &Error{Code: CodeNotInitialized, Err: err}
			return
		}
		if len(cc.Servers) == 0 {
			d.conferr = &Error{Code: CodeSysNotReady}
			return
		}
		d.server = net.JoinHostPort(cc.Servers[0], cc.Port)
	})
	return d.conferr
}

func (d *DNS) exchange(name string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(name, qtype)
	m.RecursionDesired = true
	in, _, err := d.client.Exchange(m, d.server)
	if err != nil {
		return nil, &Error{Code: CodeTryAgain, Err: err}
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, rcodeError(in.Rcode)
	}
	return in, nil
}

func (d *DNS) LookupHost(name string) (Result, error) {
	if err := d.ensureConfig(); err != nil {
		return Result{}, err
	}
	fqdn := dns.Fqdn(name)
	in, err := d.exchange(fqdn, dns.TypeA)
	if err != nil {
		return Result{}, err
	}
	res := Result{Name: name}
	collectAnswers(&res, name, in)
	// AAAA is best effort: a zone with only A records answers it
	// with an empty set, some servers refuse it outright.
	if in, err = d.exchange(fqdn, dns.TypeAAAA); err == nil {
		collectAnswers(&res, name, in)
	}
	if len(res.Addrs) == 0 {
		return Result{}, &Error{Code: CodeNoData}
	}
	return res, nil
}

func (d *DNS) LookupAddr(ip net.IP) (string, error) {
	if err := d.ensureConfig(); err != nil {
		return "", err
	}
	rev, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return "", &Error{Code: CodeNoRecovery, Err: err}
	}
	in, err := d.exchange(rev, dns.TypePTR)
	if err != nil {
		return "", err
	}
	for _, rr := range in.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", &Error{Code: CodeNoData}
}

// collectAnswers merges the answer section of in into res, following
// CNAME records to the canonical name.
func collectAnswers(res *Result, name string, in *dns.Msg) {
	for _, rr := range in.Answer {
		switch a := rr.(type) {
		case *dns.A:
			res.Addrs = append(res.Addrs, a.A)
		case *dns.AAAA:
			res.Addrs = append(res.Addrs, a.AAAA)
		case *dns.CNAME:
			target := strings.TrimSuffix(a.Target, ".")
			if target == "" || target == res.Name {
				continue
			}
			if res.Name != "" && res.Name != name {
				res.Aliases = append(res.Aliases, res.Name)
			} else {
				res.Aliases = append(res.Aliases, name)
			}
			res.Name = target
		}
	}
}

// rcodeError maps a DNS response code to a backend status code.
func rcodeError(rcode int) error {
	code := CodeNoRecovery
	switch rcode {
	case dns.RcodeNameError:
		code = CodeHostNotFound
	case dns.RcodeServerFailure:
		code = CodeTryAgain
	}
	return &Error{Code: code, Err: errors.New(dns.RcodeToString[rcode])}
}
