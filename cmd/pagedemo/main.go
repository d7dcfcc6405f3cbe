// Command pagedemo wires a disk manager, buffer pool, and hash index
// together and runs a handful of operations against them, logging each
// step. It is not a query CLI.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nvbase/pagekeeper/internal/config"
	"github.com/nvbase/pagekeeper/internal/disk"
	"github.com/nvbase/pagekeeper/internal/hashindex"
	"github.com/nvbase/pagekeeper/internal/pagecache"
)

func main() {
	configPath := flag.String("config", "", "path to a pagekeeper.yaml config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("pagedemo: failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if cfg.Server.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	dm, err := buildDiskManager(cfg.Disk)
	if err != nil {
		slog.Error("pagedemo: failed to build disk manager", "err", err)
		os.Exit(1)
	}

	pool := pagecache.NewPool(cfg.Pool.Capacity, dm)
	slog.Info("pagedemo: buffer pool ready", "capacity", pool.Capacity())

	table, err := hashindex.New[uint64, uint64](
		pool,
		uint32(cfg.Index.Buckets),
		hashindex.Uint64Codec{},
		hashindex.Uint64Codec{},
		hashindex.NewDefaultHasher(),
	)
	if err != nil {
		slog.Error("pagedemo: failed to create hash index", "err", err)
		os.Exit(1)
	}
	slog.Info("pagedemo: hash index ready", "header_pid", table.HeaderPageID(), "buckets", cfg.Index.Buckets)

	for i := uint64(0); i < 5; i++ {
		ok, err := table.Insert(i, i*i)
		if err != nil {
			slog.Error("pagedemo: insert failed", "key", i, "err", err)
			os.Exit(1)
		}
		slog.Info("pagedemo: inserted", "key", i, "value", i*i, "ok", ok)
	}

	for i := uint64(0); i < 5; i++ {
		v, found, err := table.Lookup(i)
		if err != nil {
			slog.Error("pagedemo: lookup failed", "key", i, "err", err)
			os.Exit(1)
		}
		slog.Info("pagedemo: lookup", "key", i, "value", v, "found", found)
	}
}

func buildDiskManager(cfg config.DiskConfig) (disk.Manager, error) {
	switch cfg.Backend {
	case "file":
		return disk.NewFileManager(cfg.File)
	default:
		return disk.NewMemManager(), nil
	}
}
