package lookup

import (
	"database/sql"
	"errors"
	"fmt"
	"net"

	_ "github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"

	"github.com/dullgiulio/hostcache/cfg"
)

// Mysql answers queries from a host table loaded out of MySQL at
// construction. The query must yield name, address pairs.
type Mysql struct {
	static *Static
}

func newMysql(c *cfg.Config) (*Mysql, error) {
	usr, ok := c.Get("config.user")
	if !ok {
		return nil, errors.New("mysql user not specified")
	}
	pwd, ok := c.Get("config.password")
	if !ok {
		return nil, errors.New("mysql password not specified")
	}
	dbname, ok := c.Get("config.database")
	if !ok {
		return nil, errors.New("mysql database name not specified")
	}
	query := c.GetVal("config.query", "SELECT name, address FROM hosts")
	host := c.GetVal("config.host", "localhost")
	port := c.GetVal("config.port", "3306")
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", usr, pwd, host, port, dbname)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mysql[%s]: %s", dsn, err)
	}
	defer db.Close()
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("cannot execute query on mysql[%s]: %s", dsn, err)
	}
	defer rows.Close()
	hosts := make(map[string][]net.IP)
	var name, address string
	for rows.Next() {
		if err := rows.Scan(&name, &address); err != nil {
			log.Errorf("lookup: mysql: error reading rows: %s", err)
			continue
		}
		ip := net.ParseIP(address)
		if ip == nil {
			log.Errorf("lookup: mysql: invalid address %q for host %q", address, name)
			continue
		}
		hosts[name] = append(hosts[name], ip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read rows from mysql[%s]: %s", dsn, err)
	}
	return &Mysql{static: NewStatic(hosts)}, nil
}

func (m *Mysql) LookupHost(name string) (Result, error) {
	return m.static.LookupHost(name)
}

func (m *Mysql) LookupAddr(ip net.IP) (string, error) {
	return m.static.LookupAddr(ip)
}
