// Copyright 2016 Giulio Iotti. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostcache

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var errUnhandledURL = errors.New("unhandled URL")

// httpHandler exposes a Resolver over HTTP for debugging: resolve
// hosts, inspect and flush the cache.
type httpHandler struct {
	res *Resolver
}

// NewHTTPHandler makes an http.Handler serving the debug interface
// of r:
//
//	GET  /resolve?host=H  resolve H and print the entry
//	GET  /cache/dump      print all cached entries
//	POST /cache/flush     drop all cached entries
func NewHTTPHandler(r *Resolver) http.Handler {
	return &httpHandler{res: r}
}

func (h *httpHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == errUnhandledURL {
		http.NotFound(w, r)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
	log.Errorf("http: %s %s %s: %s", r.RemoteAddr, r.Method, r.URL.Path, err)
}

func (h *httpHandler) handleResolve(w http.ResponseWriter, r *http.Request) error {
	host := r.URL.Query().Get("host")
	if host == "" {
		return errors.New("required parameter host is empty")
	}
	e, err := h.res.Resolve(host)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "%s\t%s\n", host, e)
	return nil
}

func (h *httpHandler) handleCacheDump(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/plain")
	wb := bufio.NewWriter(w)
	if err := h.res.cache.writeTo(wb); err != nil {
		return err
	}
	return wb.Flush()
}

func (h *httpHandler) handleCacheFlush(w http.ResponseWriter, r *http.Request) error {
	h.res.FlushCache()
	fmt.Fprintln(w, "cache flushed")
	return nil
}

func (h *httpHandler) handlePOST(w http.ResponseWriter, r *http.Request) error {
	switch r.URL.Path {
	case "/cache/flush":
		return h.handleCacheFlush(w, r)
	}
	return errUnhandledURL
}

func (h *httpHandler) handleGET(w http.ResponseWriter, r *http.Request) error {
	switch r.URL.Path {
	case "/resolve":
		return h.handleResolve(w, r)
	case "/cache/dump":
		return h.handleCacheDump(w, r)
	case "/favicon.ico":
		// Shut up on bogus requests
		http.NotFound(w, r)
		return nil
	}
	return errUnhandledURL
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var err error
	log.Debugf("http: tcp(%s): request %s %s", r.RemoteAddr, r.Method, r.URL.Path)
	switch r.Method {
	case "POST", "PUT":
		err = h.handlePOST(w, r)
	default:
		err = h.handleGET(w, r)
	}
	if err != nil {
		h.handleError(w, r, err)
	}
}
