/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"html"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

func serveHomePage(cfg *Config, srv *Server, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(w)

		var b strings.Builder

		host, port, _ := net.SplitHostPort(gameAddress(cfg, r))

		fmt.Fprintf(&b, "<p>Connect with <code>forca play %s %s</code></p>\n",
			html.EscapeString(host), port)
		fmt.Fprintf(&b, "<p>Up for %s with %d player%s connected.</p>\n",
			formatUptime(time.Since(srv.startTime)),
			srv.roster.Len(),
			plural(srv.roster.Len()))

		rooms := srv.rooms.List()
		if len(rooms) == 0 {
			b.WriteString("<p>No rooms yet.</p>\n")
		} else {
			b.WriteString("<table>\n<tr><th>Room</th><th>Players</th><th>Status</th></tr>\n")
			for _, room := range rooms {
				status := "waiting"
				if room.Playing {
					status = "playing"
				}

				fmt.Fprintf(&b, "<tr><td>%s</td><td>%d/%d</td><td>%s</td></tr>\n",
					html.EscapeString(room.Name), room.Players, RoomCapacity, status)
			}
			b.WriteString("</table>\n")
		}

		b.WriteString(`<p><img src="qr" alt="Game address" width="320" height="320"></p>` + "\n")

		written, err := w.Write([]byte(newPage("forca", b.String())))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Home page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveHealthCheck(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRooms(srv *Server, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		securityHeaders(w)

		err := json.NewEncoder(w).Encode(srv.rooms.List())
		if err != nil {
			errs <- err

			return
		}
	}
}
