package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"todopet/internal/config"
	"todopet/internal/logging"
	"todopet/internal/session"
	"todopet/internal/storage"
	"todopet/internal/ui"
)

func main() {
	configPath := flag.StringP("config", "c", config.ResolveConfigPath(), "path to config.toml")
	snapshotPath := flag.String("snapshot", "", "task snapshot file (overrides snapshot_path)")
	statusOnly := flag.Bool("status", false, "roll deadlines forward, print the pet and task list, then exit")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}

	log, err := logging.New(cfg.Log, *statusOnly)
	if err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, loaded, err := storage.Open(cfg.SnapshotPath)
	if err != nil {
		fmt.Printf("failed to open snapshot: %v\n", err)
		os.Exit(1)
	}
	switch loaded.Status {
	case storage.LoadCorrupt:
		log.Warnw("snapshot unreadable, starting empty", "path", cfg.SnapshotPath, "error", loaded.Err)
	case storage.LoadMissing:
		log.Infow("no snapshot yet", "path", cfg.SnapshotPath)
	default:
		log.Infow("loaded snapshot", "path", cfg.SnapshotPath, "tasks", len(loaded.Tasks))
	}

	sess := session.New(store, cfg.Thresholds(), log)

	if *statusOnly {
		report := sess.Tick()
		fmt.Print(ui.RenderReport(report, cfg.Thresholds()))
		if report.SaveErr != nil {
			fmt.Printf("warning: %v\n", report.SaveErr)
		}
		return
	}

	if err := ui.Run(sess, cfg, log); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
