/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

func registerProfileHandlers(mux *httprouter.Router) {
	for _, name := range profiles {
		mux.Handler("GET", "/pprof/"+name, pprof.Handler(name))
	}

	mux.HandlerFunc("GET", "/pprof/cmdline", pprof.Cmdline)
	mux.HandlerFunc("GET", "/pprof/profile", pprof.Profile)
	mux.HandlerFunc("GET", "/pprof/symbol", pprof.Symbol)
	mux.HandlerFunc("GET", "/pprof/trace", pprof.Trace)
}
