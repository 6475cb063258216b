package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Zero-downtime restarts: SIGUSR2 forks a replacement process that inherits
// the listening socket as fd 3, then the old process drains and exits.
// SIGTERM drains in place. The child recognizes the handoff through the
// IS_GRACEFUL environment marker.

const (
	serverReadTimeout   = 60 * time.Second
	serverWriteTimeout  = 60 * time.Second
	serverDrainTimeout  = 30 * time.Second
	gracefulEnvKey      = "IS_GRACEFUL"
	gracefulEnvPair     = gracefulEnvKey + "=1"
	inheritedListenerFd = 3
)

type graceServer struct {
	*http.Server

	listener  net.Listener
	inherited bool
	signals   chan os.Signal
	drained   chan struct{}
}

// GraceServer serves handler on addr until SIGTERM, restarting in place on
// SIGUSR2.
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		drained:   make(chan struct{}),
	}

	ln, err := srv.listen(addr)
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.handleSignals()
	err = srv.Serve(srv.listener)
	// Serve returns as soon as the listener closes; wait for in-flight
	// requests to drain before letting main exit.
	<-srv.drained
	return err
}

func (srv *graceServer) listen(addr string) (net.Listener, error) {
	if srv.inherited {
		file := os.NewFile(inheritedListenerFd, "")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *graceServer) handleSignals() {
	signal.Notify(srv.signals, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range srv.signals {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, draining HTTP server")
			srv.drain()
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, forking replacement process")
			pid, err := srv.forkReplacement()
			if err != nil {
				Sugar.Errorf("fork replacement failed: %v, continuing to serve", err)
				continue
			}
			Sugar.Infof("replacement process started, pid=%d, draining old server", pid)
			srv.drain()
		}
	}
}

func (srv *graceServer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), serverDrainTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server drained")
	}
	close(srv.drained)
}

func (srv *graceServer) forkReplacement() (uintptr, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvPair {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvPair)

	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return uintptr(pid), nil
}
