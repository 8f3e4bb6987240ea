package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/phyten/jaspace/internal/web"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		port int
		host string
		open bool
		repo string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web playground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(repo) == "" {
				repo = strings.TrimSpace(a.getenv("JASPACE_REPO"))
			}
			if repo == "" {
				repo = "."
			}
			ctx, stop := signal.NotifyContext(lintContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, ln, err := newServer(net.JoinHostPort(host, strconv.Itoa(port)), repo)
			if err != nil {
				return err
			}
			url := "http://" + ln.Addr().String()
			a.logger.Printf("serve listening on %s (repo=%s)", url, mustAbs(repo))
			if open {
				browser.Stdout = a.stderr
				browser.Stderr = a.stderr
				if err := browser.OpenURL(url); err != nil {
					a.logger.Printf("open browser: %v", err)
				}
			}
			return serveUntil(ctx, srv, ln)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "listen address")
	cmd.Flags().BoolVar(&open, "open", false, "open the playground in a browser")
	cmd.Flags().StringVar(&repo, "repo", "", "repository served by /api/run (default: current dir)")
	return cmd
}

func newServer(addr, repo string) (*http.Server, net.Listener, error) {
	mux := http.NewServeMux()
	web.Register(mux, web.Config{RepoDir: repo})
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, ln, nil
}

// serveUntil は ctx が終わるまで配信し、終わったら接続を閉じて戻ります。
func serveUntil(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func mustAbs(p string) string {
	a, _ := filepath.Abs(p)
	return a
}
