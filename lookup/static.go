package lookup

import (
	"fmt"
	"net"
	"strings"

	"github.com/dullgiulio/hostcache/cfg"
)

// Static serves a fixed host table. Used for tests and as an
// overrides backend in front of a real resolver.
type Static struct {
	hosts map[string][]net.IP
	names map[string]string
}

// NewStatic makes a backend from a name to addresses table. The
// reverse index maps each address to the first name serving it.
func NewStatic(hosts map[string][]net.IP) *Static {
	s := &Static{
		hosts: hosts,
		names: make(map[string]string),
	}
	for name, addrs := range hosts {
		for _, ip := range addrs {
			if _, ok := s.names[ip.String()]; !ok {
				s.names[ip.String()] = name
			}
		}
	}
	return s
}

// newStatic parses config.hosts entries of the form name=ip,name=ip.
func newStatic(conf *cfg.Config) (*Static, error) {
	hosts := make(map[string][]net.IP)
	raw, _ := conf.Get("config.hosts")
	for _, pair := range strings.Split(raw, ",") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("static: malformed host entry %q", pair)
		}
		ip := net.ParseIP(kv[1])
		if ip == nil {
			return nil, fmt.Errorf("static: invalid address %q for host %q", kv[1], kv[0])
		}
		hosts[kv[0]] = append(hosts[kv[0]], ip)
	}
	return NewStatic(hosts), nil
}

func (s *Static) LookupHost(name string) (Result, error) {
	addrs, ok := s.hosts[name]
	if !ok {
		return Result{}, &Error{Code: CodeHostNotFound}
	}
	if len(addrs) == 0 {
		return Result{}, &Error{Code: CodeNoData}
	}
	return Result{Name: name, Addrs: addrs}, nil
}

func (s *Static) LookupAddr(ip net.IP) (string, error) {
	name, ok := s.names[ip.String()]
	if !ok {
		return "", &Error{Code: CodeHostNotFound}
	}
	return name, nil
}
