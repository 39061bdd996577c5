package main

//	@title			pkgshelf API
//	@version		0.1.0
//	@description	Browse, search and download from a package repository feed.
//	@license.name	MIT
//	@BasePath		/api/v1

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/config"
	"github.com/HerbHall/pkgshelf/internal/version"
)

const usage = `pkgshelf - browse a package repository feed

Usage:
  pkgshelf [serve] [--config FILE]          run the web dashboard (default)
  pkgshelf browse [--url URL|--file PATH|--sample]
                                            browse a feed in the terminal
  pkgshelf build [--source json|sqlite] [--in PATH] [--out PATH]
                                            build a feed from apps.json or a database
  pkgshelf import --in apps.json [--db PATH]
                                            copy apps.json into a builder database
  pkgshelf version                          print version information
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "browse":
		err = runBrowse(args)
	case "build":
		err = runBuild(args)
	case "import":
		err = runImport(args)
	case "version":
		fmt.Println(version.Info())
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pkgshelf %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	v, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	if f := v.ConfigFileUsed(); f != "" {
		logger.Debug("configuration loaded", zap.String("component", "config"), zap.String("source", f))
	}
	return cfg, logger, nil
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	return fs, configPath
}
