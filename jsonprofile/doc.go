// Package jsonprofile adds runtime profiling capabilities to jsontk's CLI.
//
// It supports CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles through command-line flags. Use [Config.RegisterFlags] to add CLI
// flags and [Config.RegisterCompletions] to wire up shell completions.
//
// Typical usage creates a [Config], registers flags, then creates a
// [Profiler] to wrap command execution:
//
//	cfg := jsonprofile.NewConfig()
//	var p *jsonprofile.Profiler
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        p = cfg.NewProfiler() // copies cfg, so build it after flag parsing
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//	err := rootCmd.ExecuteContext(ctx)
//	stopErr := p.Stop()
//
// Profiling is useful when running jsontk against very large documents
// (close to the 100 MiB ceilings in spec.md §4.4) to see where time and
// allocations actually go.
package jsonprofile
