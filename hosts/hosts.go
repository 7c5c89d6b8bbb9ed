// Package hosts parses hosts(5) style files.
package hosts

import (
	"bufio"
	"io"
	"os"
)

// Table collects every address listed for a name, in file order.
type Table struct {
	byName map[string][]string
	byAddr map[string]string
}

func newTable() *Table {
	return &Table{
		byName: make(map[string][]string),
		byAddr: make(map[string]string),
	}
}

// Addrs returns the addresses listed for name.
func (t *Table) Addrs(name string) []string {
	return t.byName[name]
}

// Name returns the first name listed for addr.
func (t *Table) Name(addr string) (string, bool) {
	name, ok := t.byAddr[addr]
	return name, ok
}

func (t *Table) add(name, addr string) {
	t.byName[name] = append(t.byName[name], addr)
	if _, ok := t.byAddr[addr]; !ok {
		t.byAddr[addr] = name
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isAddr(b byte) bool {
	if b >= 'a' && b <= 'f' {
		return true
	}
	if b >= 'A' && b <= 'F' {
		return true
	}
	if b >= '0' && b <= '9' {
		return true
	}
	return b == '.' || b == ':' || b == '%'
}

func spaces(bs []byte, i int) int {
	for ; i < len(bs); i++ {
		if !isSpace(bs[i]) {
			break
		}
	}
	return i
}

func addr(bs []byte, i int) int {
	for ; i < len(bs); i++ {
		if isAddr(bs[i]) {
			continue
		}
		break
	}
	return i
}

func name(bs []byte, i int) int {
	for ; i < len(bs); i++ {
		if isSpace(bs[i]) {
			break
		}
	}
	return i
}

func parseLine(t *Table, bs []byte) {
	for i := 0; i < len(bs); i++ {
		if bs[i] == '#' {
			bs = bs[:i]
			break
		}
	}
	start := spaces(bs, 0)
	end := addr(bs, start)
	if end <= start {
		return
	}
	val := string(bs[start:end])
	for end < len(bs) {
		start = spaces(bs, end)
		end = name(bs, start)
		if end <= start {
			return
		}
		t.add(string(bs[start:end]), val)
	}
}

// Parse reads a hosts file from r. Malformed lines are skipped.
func Parse(r io.Reader) (*Table, error) {
	s := bufio.NewScanner(r)
	t := newTable()
	for s.Scan() {
		parseLine(t, s.Bytes())
	}
	return t, s.Err()
}

// ParseFile parses the hosts file at path.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
