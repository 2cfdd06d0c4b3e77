package eav

import (
	"fmt"
	"log/slog"
)

type Options struct {
	// Layout splits entity ids into partitions. Zero means DefaultLayout.
	Layout Layout

	// Registry resolves the possible attributes listed for entity types.
	// Defaults to a registry holding only the well-known attributes.
	Registry Registry

	// Logf receives verbose change logs and warnings. Defaults to slog at
	// debug level.
	Logf    func(format string, args ...any)
	Verbose bool
}

// config is shared by every snapshot derived from the same New call.
type config struct {
	layout   Layout
	registry Registry
	logf     func(format string, args ...any)
	verbose  bool
}

func newConfig(opt Options) *config {
	if opt.Layout == (Layout{}) {
		opt.Layout = DefaultLayout
	}
	if opt.Layout.MaxPartitions <= 0 {
		panic(fmt.Errorf("eav: invalid MaxPartitions %d", opt.Layout.MaxPartitions))
	}
	if opt.Registry == nil {
		opt.Registry = NewStaticRegistry()
	}
	if opt.Logf == nil {
		opt.Logf = slogf
	}
	return &config{
		layout:   opt.Layout,
		registry: opt.Registry,
		logf:     opt.Logf,
		verbose:  opt.Verbose,
	}
}

func slogf(format string, args ...any) {
	slog.Default().Debug(fmt.Sprintf(format, args...))
}
