package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"osrs_sim/internal/config"
	"osrs_sim/internal/logger"
	"osrs_sim/internal/store"
	"osrs_sim/internal/tempoross"
)

const usage = `usage: simsvc <command> [flags]

commands:
  optimize   rank strategies over many seeded games (default)
  simulate   play one game and write its event log
  dps        compute combat DPS for a weapon and monster
  fetch      refresh the item and monster cache
  results    list, show or delete stored results
  serve      run the HTTP API
`

var commands = map[string]func(args []string) error{
	"optimize": runOptimize,
	"simulate": runSimulate,
	"dps":      runDPS,
	"fetch":    runFetch,
	"results":  runResults,
	"serve":    runServe,
}

func main() {
	_ = logger.Initialize(logger.DefaultConfig())

	name, args := "optimize", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", name, usage)
		os.Exit(2)
	}

	err := run(args)
	if errors.Is(err, flag.ErrHelp) {
		err = nil
	}
	if err != nil {
		logger.Error("command failed", "command", name, "err", err)
	}
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// env holds the flags every command shares.
type env struct {
	cfgDir  string
	dataDir string
	dbPath  string
}

func (e *env) register(fs *flag.FlagSet) {
	fs.StringVar(&e.cfgDir, "config", "assets", "config dir")
	fs.StringVar(&e.dataDir, "data", "data", "item and monster cache dir")
	fs.StringVar(&e.dbPath, "db", "", "results database (empty disables storage)")
}

func (e *env) parse(fs *flag.FlagSet, args []string) error {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: simsvc %s [flags]\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := logger.LoadConfig(filepath.Join(e.cfgDir, "logging.yaml"))
	if err != nil {
		return err
	}
	return logger.Initialize(cfg)
}

func (e *env) load() (*config.Rules, *tempoross.Registry, error) {
	rules, sc, err := config.LoadAll(e.cfgDir)
	if err != nil {
		return nil, nil, err
	}
	return rules, tempoross.NewRegistry(sc), nil
}

// openStore returns nil when storage is disabled.
func (e *env) openStore() (*store.Store, error) {
	if e.dbPath == "" {
		return nil, nil
	}
	return store.Open(e.dbPath)
}

func writeOut(path string, v any) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(tempoross.MarshalPretty(v), '\n'))
		return err
	}
	return os.WriteFile(path, tempoross.MarshalPretty(v), 0644)
}
