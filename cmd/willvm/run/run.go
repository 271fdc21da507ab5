// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package run implements the "run" command that serves the will ledger.
package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/gagliardetto/solana-go"
	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/willvm/vm"
)

const (
	envPrefix       = "WILLVM"
	shutdownTimeout = 10 * time.Second

	configFileKey    = "config-file"
	listenAddressKey = "listen-address"
	dataDirKey       = "data-dir"
	logLevelKey      = "log-level"
	programIDKey     = "program-id"
	activityLimitKey = "activity-limit"
	retentionKey     = "activity-retention"
	pruneLimitKey    = "prune-limit"
	pruneIntervalKey = "prune-interval"
	compactKey       = "compact-interval"
)

// NewCommand implements "willvm run" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the will ledger and serves its RPC API",
		Long: `
Runs the will ledger and serves its JSON-RPC API.

Every flag may also be given in the config file or as an
environment variable, e.g. WILLVM_LISTEN_ADDRESS. Without
a data directory all state is kept in memory.

$ willvm run --data-dir=/var/lib/willvm

`,
		RunE: runFunc,
	}

	var def vm.Config
	def.SetDefaults()
	fs := cmd.Flags()
	fs.String(configFileKey, "", "config file path (json, yaml or toml)")
	fs.String(listenAddressKey, def.ListenAddress, "HTTP listen address")
	fs.String(dataDirKey, def.DataDir, "leveldb data directory")
	fs.String(logLevelKey, def.LogLevel, "log level (crit, error, warn, info, debug)")
	fs.String(programIDKey, def.ProgramID.String(), "address of the will program")
	fs.Int(activityLimitKey, def.ActivityLimit, "maximum activity entries per query")
	fs.Int(retentionKey, def.ActivityRetention, "newest activity entries kept by pruning (0 keeps all)")
	fs.Int(pruneLimitKey, def.PruneLimit, "maximum activity entries pruned per pass")
	fs.Duration(pruneIntervalKey, def.PruneInterval, "interval between pruning passes")
	fs.Duration(compactKey, def.CompactInterval, "interval between database compactions")
	return cmd
}

func buildConfig(fs *pflag.FlagSet) (vm.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return vm.Config{}, err
	}
	if f := v.GetString(configFileKey); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return vm.Config{}, err
		}
	}

	var cfg vm.Config
	cfg.SetDefaults()
	programID, err := solana.PublicKeyFromBase58(v.GetString(programIDKey))
	if err != nil {
		return vm.Config{}, err
	}
	cfg.ProgramID = programID
	cfg.ListenAddress = v.GetString(listenAddressKey)
	cfg.DataDir = v.GetString(dataDirKey)
	cfg.LogLevel = v.GetString(logLevelKey)
	cfg.ActivityLimit = v.GetInt(activityLimitKey)
	cfg.ActivityRetention = v.GetInt(retentionKey)
	cfg.PruneLimit = v.GetInt(pruneLimitKey)
	cfg.PruneInterval = v.GetDuration(pruneIntervalKey)
	cfg.CompactInterval = v.GetDuration(compactKey)
	return cfg, cfg.Verify()
}

func openDB(dir string) (database.Database, error) {
	if dir == "" {
		log.Warn("no data directory given, state will not survive a restart")
		return memdb.New(), nil
	}
	return leveldb.New(dir, nil, logging.NoLog{})
}

func runFunc(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd.Flags())
	if err != nil {
		return err
	}
	lvl, err := log.LvlFromString(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.LogfmtFormat())))

	db, err := openDB(cfg.DataDir)
	if err != nil {
		return err
	}
	v, err := vm.New(db, cfg)
	if err != nil {
		_ = db.Close()
		return err
	}
	handlers, err := v.CreateHandlers()
	if err != nil {
		_ = db.Close()
		return err
	}
	mux := http.NewServeMux()
	for endpoint, h := range handlers {
		mux.Handle(endpoint, h)
	}
	srv := &http.Server{Addr: cfg.ListenAddress, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving", "address", cfg.ListenAddress, "dataDir", cfg.DataDir)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		return srv.Shutdown(sctx)
	})

	errs := wrappers.Errs{}
	errs.Add(
		g.Wait(),
		v.Shutdown(),
		db.Close(),
	)
	return errs.Err
}
