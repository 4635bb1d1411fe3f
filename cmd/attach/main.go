// Command attach is the attach-side client of the multiplexer: it connects
// to a running master's Unix domain socket and relays terminal I/O between
// the controlling terminal and the session the master owns.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cyw0ng95/wattach/pkg/attach"
	"github.com/cyw0ng95/wattach/pkg/common"
	"github.com/cyw0ng95/wattach/pkg/config"
	"github.com/cyw0ng95/wattach/pkg/wsframe"
)

// logAdapter satisfies attach.Logger by forwarding to a *common.Logger,
// which spells the method "Debug" rather than "Debugf".
type logAdapter struct {
	l *common.Logger
}

func (a logAdapter) Debugf(format string, args ...interface{}) {
	a.l.Debug(format, args...)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("attach", flag.ContinueOnError)
	socketPath := fs.String("socket", "", "path to the master's Unix domain socket")
	noError := fs.Bool("noerror", false, "exit silently instead of reporting a failed initial connect")
	configPath := fs.String("config", "", "path to a JSON config file (see pkg/config)")
	logLevel := fs.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "attach: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	if *socketPath != "" {
		cfg.SocketPath = *socketPath
	}
	if *noError {
		cfg.NoErrorMode = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if cfg.SocketPath == "" {
		fmt.Fprintln(os.Stderr, "attach: -socket is required (or set socket_path in -config)")
		return 2
	}

	level := parseLogLevel(cfg.LogLevel)
	var logger *common.Logger
	var err error
	if cfg.LogFile != "" {
		logger, err = common.NewLoggerWithFile(cfg.LogFile, "attach", level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "attach: %v\n", err)
			return 1
		}
	} else {
		logger = common.NewLogger(os.Stderr, "attach", level)
	}

	// structured carries the startup/connect/shutdown lifecycle events as
	// structured fields on stderr, alongside the plain entity-tagged
	// stream logger emits (to the config's log_file, when set) for everything else.
	structured := common.NewStructured(os.Stderr, level)

	// The caller is expected to have already rewritten argv[0] to mark this
	// as the attacher process before exec'ing this binary. Go's argv isn't
	// portably rewritable in place the way C's is, so that step lives in
	// whatever launches this process, not here.

	ctx := attach.Ctx{
		SocketPath:  cfg.SocketPath,
		NoErrorMode: cfg.NoErrorMode,
		FrameWriter: wsframe.NewWriter(os.Stdout),
		InputFramer: wsframe.NewRawInputFramer(),
		Logger:      logAdapter{l: logger},
	}

	structured.Info().Str("socket", cfg.SocketPath).Bool("noerror_mode", cfg.NoErrorMode).Msg("attach: connecting")

	if err := attach.Run(ctx); err != nil {
		structured.Error().Err(err).Msg("attach: startup failed")
		fmt.Fprintf(os.Stderr, "attach: %v\n", err)
		return 1
	}

	// Run only returns without exiting the process in the
	// noerror_mode-with-failed-connect case; every other path terminates
	// via the Exit Reporter before reaching here.
	structured.Warn().Str("socket", cfg.SocketPath).Msg("attach: initial connect failed, noerror_mode suppressed exit")
	return 0
}

func parseLogLevel(s string) common.LogLevel {
	switch s {
	case "debug":
		return common.DebugLevel
	case "warn":
		return common.WarnLevel
	case "error":
		return common.ErrorLevel
	default:
		return common.InfoLevel
	}
}
