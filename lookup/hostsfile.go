package lookup

import (
	"net"

	"github.com/dullgiulio/hostcache/cfg"
	"github.com/dullgiulio/hostcache/hosts"
)

// Hostsfile answers queries from a hosts(5) file loaded at
// construction. Later changes to the file are not seen.
type Hostsfile struct {
	table *hosts.Table
}

// NewHostsfile loads the hosts file at path.
func NewHostsfile(path string) (*Hostsfile, error) {
	table, err := hosts.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &Hostsfile{table: table}, nil
}

func newHostsfile(conf *cfg.Config) (*Hostsfile, error) {
	return NewHostsfile(conf.GetVal("config.path", "/etc/hosts"))
}

func (h *Hostsfile) LookupHost(name string) (Result, error) {
	raw := h.table.Addrs(name)
	if len(raw) == 0 {
		return Result{}, &Error{Code: CodeHostNotFound}
	}
	res := Result{Name: name}
	for _, s := range raw {
		if ip := net.ParseIP(s); ip != nil {
			res.Addrs = append(res.Addrs, ip)
		}
	}
	if len(res.Addrs) == 0 {
		return Result{}, &Error{Code: CodeNoData}
	}
	return res, nil
}

func (h *Hostsfile) LookupAddr(ip net.IP) (string, error) {
	name, ok := h.table.Name(ip.String())
	if !ok {
		return "", &Error{Code: CodeHostNotFound}
	}
	return name, nil
}
