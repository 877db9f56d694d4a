// Package doconv converts documents between formats by chaining converter
// plugins.
//
// # Quick Start
//
// Register plugins, create a converter, and run a job:
//
//	reg := doconv.NewRegistry()
//	if err := converters.Register(reg, converters.Options{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	conv := doconv.NewConverter(reg)
//	res, err := conv.Convert(ctx, doconv.Job{
//	    Input: "report.md",
//	    From:  "md",
//	    To:    "txt",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Output) // report.txt in the working directory
//
// No plugin needs to support the requested pair directly. Here md -> txt
// runs as md -> html (goldmark) followed by html -> txt (text).
//
// # Routing
//
// Each Convert call follows the same stages:
//
//  1. Registry.LoadAll instantiates every plugin and checks its
//     dependencies (ErrDependency on the first failure).
//  2. BuildGraph merges the declared conversions into a directed graph.
//     Edges keep every candidate plugin in registration order.
//  3. SelectPath finds the path with the fewest conversions
//     (ErrUnsupportedFormat, ErrIdenticalFormats, ErrNoPathFound).
//  4. BuildPlan picks the first candidate plugin for each edge.
//  5. Executor.Execute runs the steps in order.
//
// Use Registry.Prioritize to choose which plugin wins when several
// declare the same conversion.
//
// # Intermediate Files
//
// Each step writes to <stem>.<random>.<format> beside its input (or in the
// directory given by WithTempDir). After a successful run, every
// intermediate file is removed and the last one is moved to Job.Output, or
// to <stem>.<format> in the working directory. Removal failures are logged
// and reported in Result.CleanupErrors without failing the run.
//
// When a step fails, the run stops with an error wrapping
// ErrConverterFailure and the files of earlier steps are removed. This
// reverses the older behaviour, which left partial results in place. Pass
// WithKeepOnFailure(true) to restore it and keep them for inspection. A
// plugin that panics is treated as a failed step.
//
// # Writing Plugins
//
// A plugin implements Plugin:
//
//	type upper struct{}
//
//	func (upper) Name() string                                 { return "upper" }
//	func (upper) CheckDependencies(context.Context) error      { return nil }
//	func (upper) SupportedConversions() []doconv.Conversion {
//	    return []doconv.Conversion{{From: "txt", To: "TXT"}}
//	}
//	func (upper) Convert(ctx context.Context, req doconv.Request) (string, error) {
//	    data, err := os.ReadFile(req.InputPath)
//	    if err != nil {
//	        return "", err
//	    }
//	    return req.OutputHint, os.WriteFile(req.OutputHint, bytes.ToUpper(data), 0o644)
//	}
//
//	reg.Register("upper", func() (doconv.Plugin, error) { return upper{}, nil })
package doconv
