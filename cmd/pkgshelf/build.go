package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/builder"
	"github.com/HerbHall/pkgshelf/internal/store"
	"github.com/HerbHall/pkgshelf/internal/version"
)

func runBuild(args []string) error {
	fs, configPath := newFlagSet("build")
	source := fs.String("source", "json", "data source: json, sqlite or feishu")
	in := fs.String("in", "", "apps.json path (json) or database path (sqlite)")
	out := fs.String("out", "", "output feed path (default repo_build_YYYYMMDD.xml)")
	appsOut := fs.String("apps-out", "", "also write the collected apps as apps.json to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	var src builder.Source
	switch *source {
	case "json":
		path := *in
		if path == "" {
			path = "apps.json"
		}
		src = builder.JSONSource{Path: path}
	case "sqlite":
		path := *in
		if path == "" {
			path = cfg.Build.DB
		}
		db, err := openBuilderDB(ctx, path)
		if err != nil {
			return err
		}
		defer db.Close()
		src = builder.SQLiteSource{DB: db}
	case "feishu":
		bitable, err := builder.NewFeishuSource(cfg.Build.Feishu, nil, logger.Named("feishu"))
		if err != nil {
			return err
		}
		src = bitable
	default:
		return fmt.Errorf("unknown source %q: must be json, sqlite or feishu", *source)
	}

	apps, err := src.Apps(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	doc, err := builder.Build(apps, now)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = cfg.Build.Output
	}
	if path == "" {
		path = builder.DefaultOutputName(now)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	logger.Info("feed built",
		zap.String("component", "builder"),
		zap.String("source", *source),
		zap.Int("apps", len(apps)),
		zap.String("output", path),
	)

	if *appsOut != "" {
		data, err := builder.EncodeApps(apps)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*appsOut, data, 0o644); err != nil {
			return fmt.Errorf("write apps: %w", err)
		}
	}
	fmt.Println(path)
	return nil
}

func runImport(args []string) error {
	fs, configPath := newFlagSet("import")
	in := fs.String("in", "apps.json", "apps.json to import")
	dbPath := fs.String("db", "", "builder database (default build.db)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	apps, err := builder.JSONSource{Path: *in}.Apps(ctx)
	if err != nil {
		return err
	}

	path := *dbPath
	if path == "" {
		path = cfg.Build.DB
	}
	db, err := openBuilderDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := builder.Import(ctx, db, apps); err != nil {
		return err
	}
	logger.Info("apps imported",
		zap.String("component", "builder"),
		zap.Int("apps", len(apps)),
		zap.String("db", path),
	)
	return nil
}

func openBuilderDB(ctx context.Context, path string) (*store.DB, error) {
	db, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := builder.Prepare(ctx, db, version.Short()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
