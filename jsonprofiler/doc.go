// Package jsonprofiler is a simpler counterpart to [jsonprofile] aimed
// at library callers that want to wrap a single parse or stringify run
// in profiling. Where [jsonprofile] splits Flags/Config/Profiler with
// customizable flag names and cobra completions, a [Profiler] here is a
// single struct whose fields are set directly, or bound to fixed-name
// pflag flags via [Profiler.RegisterFlags].
package jsonprofiler
