package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ACCESS-NRI/access-profiling/internal/experiment"
	"github.com/ACCESS-NRI/access-profiling/internal/server"
	"github.com/ACCESS-NRI/access-profiling/internal/stats"
	"github.com/ACCESS-NRI/access-profiling/internal/watch"
)

var (
	serveAddr  string
	serveKind  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [experiment-dir]",
	Short: "Serve normalized profiling tables over HTTP",
	Long: `Ingest an experiment directory and expose the per-component tables
through a JSON API for plotting clients. With --watch, profiling logs are
re-ingested as the model appends to them, and connected WebSocket clients
are told to refresh.

Examples:
  accessprof serve run-dir
  accessprof serve --kind cylc --watch u-ab123
  accessprof serve run-dir --addr :9090`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveKind, "kind", "k", "payu", "experiment kind: payu, cylc")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "re-ingest when profiling logs change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := args[0]

	kind, err := experiment.ParseKind(serveKind)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\naccessprof shutting down...")
		cancel()
	}()

	state, err := experiment.NewState(filepath.Join(".", ".accessprof-state.json"))
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if _, ok := state.Get(dir); !ok {
		state.Set(dir, experiment.StatusNew)
	}

	store := server.NewStore()
	st := stats.New(store.Len)
	srv := server.New(store, st, serveAddr)

	refresh := func() {
		tables, err := experiment.Tables(kind, dir)
		if err != nil {
			st.RecordFailure()
			state.Set(dir, experiment.StatusRunning)
			log.Printf("ingest failed: %v", err)
			return
		}

		entries := 0
		for component, table := range tables {
			store.Set(component, table)
			entries += table.Len()
			srv.NotifyRefresh(component)
		}
		st.RecordIngest(len(tables), entries, 0)

		state.Set(dir, experiment.StatusDone)
		if err := state.Save(); err != nil {
			log.Printf("failed to save state: %v", err)
		}
	}

	refresh()
	if store.Len() == 0 {
		return fmt.Errorf("no profiling logs found in %s", dir)
	}
	fmt.Fprintf(os.Stderr, "serving %d component(s) from %s on %s\n", store.Len(), dir, serveAddr)

	if serveWatch {
		logs, err := experiment.Logs(kind, dir)
		if err != nil {
			return err
		}
		patterns := make([]string, len(logs))
		for i, l := range logs {
			patterns[i] = l.Path
		}

		w, err := watch.New(patterns)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		fmt.Fprintf(os.Stderr, "watching %d file(s) for changes\n", len(w.Paths()))

		go w.Start(ctx)
		go func() {
			for range w.Changes {
				refresh()
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
