package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protoflo/protoflo/bus"
	"github.com/protoflo/protoflo/graph"
	"github.com/protoflo/protoflo/network"
	"github.com/protoflo/protoflo/protolog"
)

func runCommand() *cobra.Command {
	var file, cacheDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single graph file to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("run: --file is required")
			}
			return runGraphFile(cmd.Context(), file, cacheDir)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a .json graph definition")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", ".protoflo-cache", "directory used to cache component descriptors")
	return cmd
}

func runGraphFile(ctx context.Context, path, cacheDir string) error {
	registry, err := newRegistry(cacheDir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("run: reading %q: %w", path, err)
	}
	g, err := graph.Load(data, path)
	if err != nil {
		return fmt.Errorf("run: parsing %q: %w", path, err)
	}

	n, err := network.Create(g, registry, true)
	if err != nil {
		return fmt.Errorf("run: building network: %w", err)
	}

	done := make(chan struct{})
	n.On("end", func(bus.Fields) { close(done) })

	if err := n.Connect(); err != nil {
		return fmt.Errorf("run: connecting: %w", err)
	}
	if err := n.Start(); err != nil {
		return fmt.Errorf("run: starting: %w", err)
	}

	protolog.Info("run: %s running", path)
	select {
	case <-done:
		protolog.Info("run: %s finished", path)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
