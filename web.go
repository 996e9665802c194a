package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

// gameAddress is the host:port players should dial, falling back to the host
// the status page was reached on when the server listens on every interface.
func gameAddress(cfg *Config, r *http.Request) string {
	host := cfg.host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = r.Host
		if h, _, err := net.SplitHostPort(r.Host); err == nil {
			host = h
		}
	}

	return net.JoinHostPort(host, strconv.Itoa(cfg.port))
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("forca v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// serveQR renders a PNG QR code carrying the game address, for players to
// scan from the status page.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		const qrSize = 320

		png, err := qrcode.Encode("tcp://"+gameAddress(cfg, r), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// serveWS bridges a websocket into the same command loop TCP clients use.
func serveWS(ctx context.Context, srv *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(srv.cfg, "SERVE: Websocket upgrade from %s failed: %v", realIP(r), err)

			return
		}

		srv.handlers.Add(1)
		defer srv.handlers.Done()

		srv.handle(ctx, newWSTransport(conn, realIP(r)))
	}
}

// ServeStatus runs the HTTP side of the server until ctx is cancelled.
func ServeStatus(ctx context.Context, cfg *Config, srv *Server) error {
	mux := httprouter.New()

	hs := &http.Server{
		Addr:              net.JoinHostPort(cfg.host, strconv.Itoa(cfg.statusPort)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: timeout,
	}

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	errs := make(chan error, 64)

	go func() {
		for err := range errs {
			logf(cfg, "SERVE: %v", err)
		}
	}()

	mux.GET("/", serveHomePage(cfg, srv, errs))

	mux.GET("/healthz", serveHealthCheck(errs))

	mux.GET("/rooms", serveRooms(srv, errs))

	mux.GET("/qr", serveQR(cfg, errs))

	mux.GET("/version", serveVersion(cfg, errs))

	mux.GET("/ws", serveWS(ctx, srv))

	if cfg.profile {
		registerProfileHandlers(mux)
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = hs.Shutdown(shutdownCtx)
	}()

	logf(cfg, "SERVE: Status page on http://%s/", hs.Addr)

	err := hs.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status listener: %w", err)
	}

	return nil
}
