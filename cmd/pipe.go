package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/logfwd/app"
	"github.com/kilianp07/logfwd/core/logging"
	"github.com/kilianp07/logfwd/infra/logger"
)

var pipeOpts struct {
	source string
	level  string
	strict bool
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Forward every line read from stdin",
	Long: `Forward every non-empty stdin line at the given level until EOF or a
termination signal. Metrics are served while the command runs when enabled
in the configuration.`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

func init() {
	f := pipeCmd.Flags()
	f.StringVarP(&pipeOpts.source, "source", "s", "", "logger source (defaults to forwarder.source)")
	f.StringVarP(&pipeOpts.level, "level", "l", "", "debug, info, warn, error or fatal (defaults to forwarder.level)")
	f.BoolVar(&pipeOpts.strict, "strict", false, "stop at the first submission error")
	rootCmd.AddCommand(pipeCmd)
}

func runPipe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	source, level := pipeOpts.source, pipeOpts.level
	if source == "" {
		source = cfg.Forwarder.Source
	}
	if level == "" {
		level = cfg.Forwarder.Level
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	log := logger.New("pipe")
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	l, err := svc.Logger(source)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- svc.Run(runCtx) }()

	n, err := pipe(ctx, cmd.InOrStdin(), l, lvl, pipeOpts.strict, log)
	cancel()
	if rerr := <-runErr; rerr != nil && err == nil {
		err = rerr
	}
	log.Infof("forwarded %d lines", n)
	return err
}

// pipe writes each non-empty line of r to l and returns the number of
// lines forwarded. Submission errors are logged unless strict is set.
func pipe(ctx context.Context, r io.Reader, l logging.Logger, lvl logging.Level, strict bool, log logger.Logger) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		if ctx.Err() != nil {
			return n, nil
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		if err := l.Write(line, lvl); err != nil {
			if strict {
				return n, fmt.Errorf("line %d: %w", n+1, err)
			}
			log.Errorf("forward line: %v", err)
			continue
		}
		n++
	}
	return n, sc.Err()
}
