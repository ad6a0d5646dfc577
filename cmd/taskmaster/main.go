package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/config"
	"taskmaster/internal/tasks"
	"taskmaster/internal/ui"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "taskmaster error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out, errOut io.Writer) error {
	if len(args) == 0 {
		return printUsage(out)
	}

	switch args[0] {
	case "ui":
		return runUI(args[1:], in, out, errOut)
	case "config":
		return runConfig(args[1:], out, errOut)
	case "help", "-h", "--help":
		return printUsage(out)
	default:
		_ = printUsage(errOut)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// storeFlags are shared by every command that needs a resolved config.
type storeFlags struct {
	configPath  string
	taskBackend string
	userBackend string
	filter      string
	noSeed      bool
	debug       bool
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Path to a JSONC config file (default: user config dir)")
	fs.StringVar(&f.taskBackend, "task-backend", "", "Task backend: memory or sqlite")
	fs.StringVar(&f.userBackend, "user-backend", "", "User backend: memory or gorm")
	fs.StringVar(&f.filter, "filter", "", "Initial task filter: all, low, medium or high")
	fs.BoolVar(&f.noSeed, "no-seed", false, "Start with empty task and user lists")
	fs.BoolVar(&f.debug, "debug", false, "Log debug output to stderr")
}

func (f *storeFlags) resolve(fs *flag.FlagSet, logger *slog.Logger) (config.Config, error) {
	path := f.configPath
	mustExist := path != ""
	if path == "" {
		path = config.DefaultPath(os.Getenv)
	}

	cfg, source, err := config.Load(path, mustExist)
	if err != nil {
		return config.Config{}, err
	}
	if source != "" {
		logger.Debug("loaded config", "path", source)
	}

	if fs.Changed("task-backend") {
		cfg.TaskBackend = f.taskBackend
	}
	if fs.Changed("user-backend") {
		cfg.UserBackend = f.userBackend
	}
	if fs.Changed("filter") {
		filter, err := tasks.ParseFilter(f.filter)
		if err != nil {
			return config.Config{}, err
		}
		cfg.DefaultFilter = filter
	}
	if f.noSeed {
		cfg.Seed = false
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runUI(args []string, in io.Reader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var opts storeFlags
	opts.register(fs)
	preview := fs.Bool("preview", false, "Render once and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := newLogger(errOut, opts.debug)
	cfg, err := opts.resolve(fs, logger)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	ctx := context.Background()
	store, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("close store", "err", closeErr)
		}
	}()

	if *preview {
		return ui.Preview(ctx, store, out)
	}
	return ui.RunInteractive(ctx, store, in, out)
}

func runConfig(args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		return printConfigUsage(out)
	}

	switch args[0] {
	case "init":
		return runConfigInit(args[1:], out, errOut)
	case "print":
		return runConfigPrint(args[1:], out, errOut)
	default:
		_ = printConfigUsage(errOut)
		return fmt.Errorf("unknown config command %q", args[0])
	}
}

func runConfigInit(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	path := fs.String("path", "", "Where to write the config file (default: user config dir)")
	force := fs.Bool("force", false, "Overwrite an existing file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	target := *path
	if target == "" {
		target = config.DefaultPath(os.Getenv)
	}
	if err := config.WriteDefault(target, *force); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	fmt.Fprintf(out, "config_path=%s status=created\n", target)
	return nil
}

func runConfigPrint(args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("config print", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var opts storeFlags
	opts.register(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := opts.resolve(fs, newLogger(errOut, opts.debug))
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	formatted, err := config.Format(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatted)
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "taskmaster usage:")
	fmt.Fprintln(w, "  taskmaster ui [--preview] [--config path] [--task-backend memory|sqlite] [--user-backend memory|gorm] [--filter f] [--no-seed] [--debug]")
	fmt.Fprintln(w, "  taskmaster config init [--path path] [--force]")
	fmt.Fprintln(w, "  taskmaster config print [--config path] [store flags]")
	return nil
}

func printConfigUsage(w io.Writer) error {
	fmt.Fprintln(w, "taskmaster config usage:")
	fmt.Fprintln(w, "  taskmaster config init [--path path] [--force]")
	fmt.Fprintln(w, "  taskmaster config print [--config path] [store flags]")
	return nil
}
