package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// ServeHTTP binds the server to a streamable HTTP listener on host:port and
// blocks until ctx is cancelled or the listener fails. The transport choice
// is made once at startup; failure to construct the listener is returned to
// the caller, which treats it as fatal rather than falling back to stdio.
func (s *Server) ServeHTTP(ctx context.Context, host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding HTTP listener on %s: %w", addr, err)
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.logRequests(handler),
	}

	s.logger.Info().Str("addr", addr).Msg("starting MCP server with streamable HTTP transport")

	// Block on the listener's own lifecycle. Requests are served
	// concurrently by net/http; the only shared state is the read-only
	// snapshot and the docs client's connection pool.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// logRequests records method, path, and headers for every inbound request
// before handing it to the protocol handler.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path)
		for name, values := range r.Header {
			if len(values) > 0 {
				event = event.Str("header."+name, values[0])
			}
		}
		event.Msg("incoming request")

		next.ServeHTTP(w, r)
	})
}
