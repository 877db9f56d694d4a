package main

import (
	"io"
	"os"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/converters"
)

// RegistryFunc builds the plugin registry for a run.
type RegistryFunc func(opts converters.Options) (*doconv.Registry, error)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Getwd    func() (string, error)
	Registry RegistryFunc
}

// DefaultEnv returns the production environment with the built-in plugins.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getwd:    os.Getwd,
		Registry: builtinRegistry,
	}
}

// builtinRegistry registers every built-in converter allowed by opts.
func builtinRegistry(opts converters.Options) (*doconv.Registry, error) {
	reg := doconv.NewRegistry()
	if err := converters.Register(reg, opts); err != nil {
		return nil, err
	}
	return reg, nil
}
