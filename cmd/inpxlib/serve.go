package main

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/inpxlib/pkg/server"
	"github.com/shishobooks/inpxlib/pkg/version"
	"github.com/urfave/cli/v2"
)

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	graceful := signals.Setup()
	go func() {
		select {
		case <-graceful:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the library over HTTP",
		Action: func(c *cli.Context) error {
			log := logger.FromContext(c.Context)
			log.Info("starting inpxlib server", logger.Data{"version": version.Version})

			srv, err := server.New(a.cfg, a.db)
			if err != nil {
				return err
			}

			lc := net.ListenConfig{}
			listener, err := lc.Listen(c.Context, "tcp", srv.Addr)
			if err != nil {
				return errors.Wrap(err, "failed to bind port")
			}
			log.Info("server started", logger.Data{"addr": listener.Addr().String()})

			ctx, stop := signalContext(c.Context)
			defer stop()

			errs := make(chan error, 1)
			go func() {
				errs <- srv.Serve(listener)
			}()

			select {
			case err := <-errs:
				if !errors.Is(err, http.ErrServerClosed) {
					return errors.WithStack(err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("starting graceful shutdown")
			// The signal context is already done, so shutdown gets a fresh one.
			if err := srv.Shutdown(context.WithoutCancel(c.Context)); err != nil {
				log.Err(err).Error("server shutdown error")
			}
			log.Info("server shutdown")
			return nil
		},
	}
}
