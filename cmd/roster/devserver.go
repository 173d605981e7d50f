package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/devserver"
	"github.com/alexisbeaulieu97/roster/internal/student"
)

const devServerShutdownTimeout = 5 * time.Second

type devServerOptions struct {
	addr string
	seed bool
}

func newDevServerCmd(flags *rootFlags) *cobra.Command {
	opts := &devServerOptions{}

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory student API for local use",
		Long:  `Serve the student API from memory. Data is lost when the server stops.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevServer(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default: host of the configured API URL)")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Start with a handful of demo students")

	return cmd
}

func runDevServer(cmd *cobra.Command, flags *rootFlags, opts *devServerOptions) error {
	app, err := loadAppContext(cmd, flags, "devserver")
	if err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = app.Host()
	}

	var seed []student.Record
	if opts.seed {
		seed = devserver.DemoStudents()
	}
	srv := devserver.New(devserver.NewMemoryStore(seed...), devserver.Options{Logger: app.Logger})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return newCommandError("start dev server", fmt.Sprintf("listening on %s", addr), err, "Pick a free address with --addr.")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	fmt.Fprintf(cmd.OutOrStdout(), "Dev server listening on http://%s\n", ln.Addr())

	select {
	case err := <-served:
		if err != nil {
			return newCommandError("run dev server", fmt.Sprintf("serving on %s", ln.Addr()), err, "Check the log output above.")
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down dev server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), devServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return newCommandError("stop dev server", "draining connections", err, "Some requests were still running; retry stopping the server.")
	}
	if err := <-served; err != nil {
		return newCommandError("stop dev server", "waiting for listener", err, "Check the log output above.")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Dev server stopped.")
	return nil
}
