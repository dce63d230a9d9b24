package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if flags.version {
		fmt.Println("mdconvert", Version)
		return ExitSuccess
	}

	env := DefaultEnv()
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	if flags.verbose() {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if configPath := firstNonEmpty(flags.common.config, envCfg.ConfigPath); configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		env.Config = cfg
	}

	if flags.layout.layoutDebug {
		os.Setenv("MDCONVERT_LAYOUT_DEBUG", "true")
	}

	opts, err := serviceOptions(flags, envCfg, env.Config)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	poolSize := mdconvert.ResolvePoolSize(firstNonZero(flags.workers, envCfg.Workers))
	if flags.verbose() {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := mdconvert.NewServicePool(poolSize, opts...)
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runConvert(ctx, positional, flags, envCfg, &poolAdapter{pool: pool}, env); err != nil {
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// verbose reports whether detailed progress was requested.
func (f *convertFlags) verbose() bool {
	return f.common.verbose && !f.common.quiet
}

// serviceOptions derives library options from flags, environment, and
// config file.
func serviceOptions(flags *convertFlags, envCfg *envConfig, cfg *config.Config) ([]mdconvert.Option, error) {
	var opts []mdconvert.Option

	if timeoutStr := flags.timeout; timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q", timeoutStr)
		}
		opts = append(opts, mdconvert.WithTimeout(d))
	} else if envCfg.Timeout > 0 {
		opts = append(opts, mdconvert.WithTimeout(envCfg.Timeout))
	}

	noH2 := flags.layout.noH2Breaks
	if !noH2 && cfg.Layout.BreakBeforeH2 != nil && !*cfg.Layout.BreakBeforeH2 {
		noH2 = true
	}
	if noH2 {
		opts = append(opts, mdconvert.WithoutH2Breaks())
	}

	return opts, nil
}
