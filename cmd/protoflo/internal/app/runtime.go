package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/protoflo/protoflo/cachestore/file"
	"github.com/protoflo/protoflo/component"
	"github.com/protoflo/protoflo/components/core"
	"github.com/protoflo/protoflo/network"
	"github.com/protoflo/protoflo/protocol"
	"github.com/protoflo/protoflo/protolog"
	"github.com/protoflo/protoflo/transport"
)

func runtimeCommand() *cobra.Command {
	var ip, port, cacheDir string

	cmd := &cobra.Command{
		Use:   "runtime",
		Short: "Serve the control protocol over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuntime(cmd.Context(), ip, port, cacheDir)
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "localhost", "address to listen on")
	cmd.Flags().StringVar(&port, "port", "3569", "port to listen on")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", ".protoflo-cache", "directory used to cache component descriptors")
	return cmd
}

func runRuntime(ctx context.Context, ip, port, cacheDir string) error {
	registry, err := newRegistry(cacheDir)
	if err != nil {
		return err
	}

	state := protocol.NewState(registry)
	dispatcher := protocol.NewDispatcher()
	protocol.RegisterAll(dispatcher, state)

	addr := fmt.Sprintf("%s:%s", ip, port)
	server := transport.NewWSServer(addr, dispatcher)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	protolog.Info("runtime: listening on ws://%s", addr)
	return server.ListenAndServe(ctx)
}

func newRegistry(cacheDir string) (*component.Registry, error) {
	store, err := file.New(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("runtime: opening cache dir %q: %w", cacheDir, err)
	}
	registry := component.NewRegistry(store)
	registry.NewSubgraph = network.NewSubgraphLoader(registry, ".")
	core.Register(registry)
	return registry, nil
}
