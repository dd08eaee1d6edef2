package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/logfwd/app"
	"github.com/kilianp07/logfwd/core/logging"
	"github.com/kilianp07/logfwd/infra/logger"
)

type emitOptions struct {
	source    string
	level     string
	provider  string
	exception string
	value     bool
}

var emitOpts emitOptions

var emitCmd = &cobra.Command{
	Use:   "emit FORMAT [ARGS...]",
	Short: "Forward one log line or exception",
	Long: `Forward one call through the configured sinks.

Arguments that parse as integers or floats are passed as numbers so that
format specifiers such as {0:N2} apply. With --exception the message is
linked to an exception record by a shared reference id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmit,
}

func init() {
	f := emitCmd.Flags()
	f.StringVarP(&emitOpts.source, "source", "s", "", "logger source (defaults to forwarder.source)")
	f.StringVarP(&emitOpts.level, "level", "l", "", "debug, info, warn, error or fatal (defaults to forwarder.level)")
	f.StringVarP(&emitOpts.provider, "provider", "p", "", "culture used for formatting, e.g. de-DE")
	f.StringVarP(&emitOpts.exception, "exception", "e", "", "submit an exception with this text")
	f.BoolVar(&emitOpts.value, "value", false, "forward the single argument as a value")
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := emitOpts
	if opts.source == "" {
		opts.source = cfg.Forwarder.Source
	}
	if opts.level == "" {
		opts.level = cfg.Forwarder.Level
	}
	if opts.provider == "" {
		opts.provider = cfg.Forwarder.Provider
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("emit").Errorf("service close: %v", err)
		}
	}()
	l, err := svc.Logger(opts.source)
	if err != nil {
		return err
	}
	return emit(l, opts, args)
}

// emit selects the logger method matching the options and arguments.
func emit(l logging.Logger, opts emitOptions, args []string) error {
	lvl, err := logging.ParseLevel(opts.level)
	if err != nil {
		return err
	}
	m := methodsFor(l, lvl)
	var p logging.FormatProvider
	if opts.provider != "" {
		c, err := logging.CultureFor(opts.provider)
		if err != nil {
			return err
		}
		p = c
	}
	switch {
	case opts.exception != "":
		return m.exception(strings.Join(args, " "), errors.New(opts.exception))
	case opts.value:
		if len(args) != 1 {
			return fmt.Errorf("--value takes exactly one argument, got %d", len(args))
		}
		if p != nil {
			return m.valueWith(p, parseArg(args[0]))
		}
		return m.value(parseArg(args[0]))
	case len(args) == 1 && p == nil:
		return m.plain(args[0])
	case p != nil:
		return m.formatWith(p, args[0], parseArgs(args[1:])...)
	default:
		return m.format(args[0], parseArgs(args[1:])...)
	}
}

type methods struct {
	plain      func(string) error
	format     func(string, ...any) error
	formatWith func(logging.FormatProvider, string, ...any) error
	value      func(any) error
	valueWith  func(logging.FormatProvider, any) error
	exception  func(string, error) error
}

func methodsFor(l logging.Logger, lvl logging.Level) methods {
	switch lvl {
	case logging.DebugLevel:
		return methods{l.Debug, l.Debugf, l.DebugfWith, l.DebugValue, l.DebugValueWith, l.DebugException}
	case logging.WarnLevel:
		return methods{l.Warn, l.Warnf, l.WarnfWith, l.WarnValue, l.WarnValueWith, l.WarnException}
	case logging.ErrorLevel:
		return methods{l.Error, l.Errorf, l.ErrorfWith, l.ErrorValue, l.ErrorValueWith, l.ErrorException}
	case logging.FatalLevel:
		return methods{l.Fatal, l.Fatalf, l.FatalfWith, l.FatalValue, l.FatalValueWith, l.FatalException}
	default:
		return methods{l.Info, l.Infof, l.InfofWith, l.InfoValue, l.InfoValueWith, l.InfoException}
	}
}

func parseArgs(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = parseArg(s)
	}
	return out
}

// parseArg turns numeric text into int64 or float64 and leaves the rest as is.
func parseArg(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
		return f
	}
	return s
}
