// Package main provides the CLI entry point for jsontk, a toolkit for
// parsing, querying, type-checking, converting, and inspecting JSON
// documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/jsonlog"
	"go.jsontk.dev/jsontk/jsonprofile"
)

// syncWriter serializes writes from multiple goroutines onto a single
// underlying writer so concurrent writers (the log handler and the
// --log-tail drain goroutine) never interleave mid-write.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

func main() {
	logCfg := jsonlog.NewConfig()
	profCfg := jsonprofile.NewConfig()
	logPub := jsonlog.NewPublisher()
	stderr := &syncWriter{w: os.Stderr}

	var tailLog bool
	var tailDone chan struct{}
	var profiler *jsonprofile.Profiler

	rootCmd := &cobra.Command{
		Use:           "jsontk",
		Short:         "Parse, query, and convert JSON documents",
		Long:          `jsontk is a toolkit for parsing, querying, type-checking, converting between JSON and adjacent formats, and inspecting JSON documents.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			out := io.Writer(stderr)
			if tailLog {
				out = io.MultiWriter(stderr, logPub)

				sub := logPub.Subscribe()
				tailDone = make(chan struct{})

				go func() {
					defer close(tailDone)

					for entry := range sub.C() {
						fmt.Fprintf(stderr, "[log-tail] %s", entry)
					}
				}()
			}

			handler, err := logCfg.NewHandler(out)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			// NewProfiler copies profCfg, so it is built only after the
			// profiling flags have been parsed into it.
			profiler = profCfg.NewProfiler()

			return profiler.Start()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if tailLog {
				// Closing the publisher closes every live subscription's
				// channel, which ends the drain goroutine's range loop.
				logPub.Close()
				<-tailDone
			}

			return profiler.Stop()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&tailLog, "log-tail", false,
		"fan out log output to a subscriber printed alongside stderr")

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := profCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		newParseCmd(),
		newQueryCmd(),
		newCheckCmd(),
		newStatsCmd(),
		newConvertCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
