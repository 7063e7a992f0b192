package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/atharv3903/metronav/internal/algo"
	"github.com/atharv3903/metronav/internal/api"
	"github.com/atharv3903/metronav/internal/cache"
	"github.com/atharv3903/metronav/internal/config"
	"github.com/atharv3903/metronav/internal/db"
	"github.com/atharv3903/metronav/internal/graph"
	"github.com/atharv3903/metronav/internal/logging"
	"github.com/atharv3903/metronav/internal/network"
)

// errRouteFailed makes `route` exit non-zero without printing a usage error.
var errRouteFailed = errors.New("route failed")

type app struct {
	configPath string
	logLevel   string
	dev        bool
	flags      *config.Flags

	cfg    config.ServerConfig
	logger *zap.Logger
	conn   *sql.DB
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "metronav",
		Short:         "Shortest routes through a metro network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cobra.OnFinalize(a.close)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.dev, "dev", false, "human-readable development logging")
	a.flags = config.BindFlags(pf)

	root.AddCommand(
		a.serveCmd(),
		a.routeCmd(stdout),
		a.stationsCmd(stdout),
		a.seedCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.flags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Development = a.dev
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.LogLevel, cfg.Development)
	return err
}

// close runs after every command, including failed ones.
func (a *app) close() {
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
		a.logger = nil
	}
}

func (a *app) store(ctx context.Context) (db.Store, error) {
	if a.conn == nil {
		conn, err := db.Open(ctx, a.cfg.Driver, a.cfg.DSN)
		if err != nil {
			return db.Store{}, err
		}
		a.conn = conn
	}
	return db.Store{DB: a.conn}, nil
}

func (a *app) loaderOptions() []graph.Option {
	if a.cfg.StrictWeights {
		return []graph.Option{graph.WithStrictWeights()}
	}
	return nil
}

func (a *app) network(ctx context.Context) (*network.Network, error) {
	var src network.Source = network.FileSource{Path: a.cfg.NetworkFile}
	if a.cfg.Source == config.SourceDB {
		store, err := a.store(ctx)
		if err != nil {
			return nil, err
		}
		src = network.StoreSource{Store: store, Name: a.cfg.NetworkName}
	}

	n := network.New(src, a.logger, a.loaderOptions()...)
	if _, err := n.Load(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve route queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("metronav starting", zap.String("addr", a.cfg.Addr), zap.String("source", a.cfg.Source))

			n, err := a.network(ctx)
			if err != nil {
				return err
			}

			srv := api.New(n, cache.NewRouteCache(a.cfg.CacheCapacity), a.logger)
			hs := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- hs.ListenAndServe() }()
			a.logger.Info("listening", zap.String("addr", a.cfg.Addr))

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err = hs.Shutdown(shutdownCtx)
			a.logger.Info("metronav stopped")
			return err
		},
	}
}

func (a *app) routeCmd(stdout io.Writer) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "route FROM TO",
		Short: "Print the shortest route between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.network(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := n.Current()
			if err != nil {
				return err
			}

			r := algo.FindShortestPath(snap.Graph, args[0], args[1])
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(stdout, strings.TrimSuffix(r.Format(), "\n"))
			}
			if !r.OK() {
				return errRouteFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (a *app) stationsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List stations in network order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.network(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := n.Current()
			if err != nil {
				return err
			}
			for _, s := range snap.Graph.Stations() {
				fmt.Fprintln(stdout, s)
			}
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed NAME FILE",
		Short: "Validate a network file and store it in the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, path := args[0], args[1]

			body, err := network.FileSource{Path: path}.Text(ctx)
			if err != nil {
				return err
			}
			g, err := graph.Load(body, append(a.loaderOptions(), graph.WithLogger(a.logger))...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			store, err := a.store(ctx)
			if err != nil {
				return err
			}
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := store.PutNetwork(ctx, name, body); err != nil {
				return err
			}
			a.logger.Info("network stored", zap.String("name", name), zap.Int("stations", g.Len()))
			return nil
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errRouteFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
