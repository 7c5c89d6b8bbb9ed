// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dullgiulio/hostcache"
	"github.com/dullgiulio/hostcache/cfg"
	"github.com/dullgiulio/hostcache/lookup"
)

// fileConfig is the optional YAML configuration file.
type fileConfig struct {
	Listen string `yaml:"listen"`
	Lookup struct {
		Type    string            `yaml:"type"`
		Options map[string]string `yaml:"options"`
	} `yaml:"lookup"`
}

func readConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read configuration file %s", path)
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, errors.Wrapf(err, "cannot parse configuration file %s", path)
	}
	return fc, nil
}

func makeResolver(ltype string, options map[string]string) (*hostcache.Resolver, error) {
	conf := cfg.NewConfig()
	for k, v := range options {
		conf.Put("config."+k, v)
	}
	lk, err := lookup.MakeLookuper(ltype, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot make %s lookuper", ltype)
	}
	return hostcache.NewResolver(lk), nil
}

func resolveAll(res *hostcache.Resolver, hosts []string) int {
	failed := 0
	for _, h := range hosts {
		e, err := res.Resolve(h)
		if err != nil {
			log.Errorf("cannot resolve %s: %s", h, err)
			failed++
			continue
		}
		fmt.Printf("%s\t%s\n", h, e)
	}
	return failed
}

func main() {
	var (
		httpListen = flag.String("http", "", "`HOST:PORT` to listen on for debug HTTP requests; empty for one-shot mode")
		ltype      = flag.String("lookup", "system", "lookup `BACKEND`: system, dns, static, hosts or mysql")
		conffile   = flag.String("config", "", "YAML configuration file `F`")
		debug      = flag.Bool("debug", false, "show debug log messages")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of hostcache: hostcache [flags] [host...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	var options map[string]string
	if *conffile != "" {
		fc, err := readConfig(*conffile)
		if err != nil {
			log.Fatal(err)
		}
		if fc.Listen != "" {
			*httpListen = fc.Listen
		}
		if fc.Lookup.Type != "" {
			*ltype = fc.Lookup.Type
		}
		options = fc.Lookup.Options
	}

	res, err := makeResolver(*ltype, options)
	if err != nil {
		log.Fatal(err)
	}

	if *httpListen == "" {
		if flag.NArg() == 0 {
			flag.Usage()
			os.Exit(2)
		}
		if failed := resolveAll(res, flag.Args()); failed > 0 {
			os.Exit(1)
		}
		return
	}

	log.Infof("http: listening on %s", *httpListen)
	log.Fatal(http.ListenAndServe(*httpListen, hostcache.NewHTTPHandler(res)))
}
