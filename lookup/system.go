package lookup

import (
	"net"
	"strings"
)

// System resolves through the operating system resolver, using the
// same sources the platform itself consults (hosts file, NSS, DNS).
type System struct{}

func (System) LookupHost(name string) (Result, error) {
	addrs, err := net.LookupIP(name)
	if err != nil {
		return Result{}, sysError(err)
	}
	res := Result{Name: name, Addrs: addrs}
	// Best effort: the stock lookup does not report the canonical
	// name, a CNAME query might.
	if cname, err := net.LookupCNAME(name); err == nil {
		cname = strings.TrimSuffix(cname, ".")
		if cname != "" && cname != name {
			res.Name = cname
			res.Aliases = []string{name}
		}
	}
	return res, nil
}

func (System) LookupAddr(ip net.IP) (string, error) {
	names, err := net.LookupAddr(ip.String())
	if err != nil {
		return "", sysError(err)
	}
	if len(names) == 0 {
		return "", &Error{Code: CodeNoData}
	}
	return strings.TrimSuffix(names[0], "."), nil
}

// sysError classifies a platform resolver failure into a status code.
func sysError(err error) error {
	dnserr, ok := err.(*net.DNSError)
	if !ok {
		return err
	}
	code := CodeNoRecovery
	switch {
	case dnserr.IsNotFound:
		code = CodeHostNotFound
	case dnserr.IsTimeout || dnserr.IsTemporary:
		code = CodeTryAgain
	}
	return &Error{Code: code, Err: err}
}
