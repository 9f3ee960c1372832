// Package host defines the collaborators the reconcilers need from the
// build host and provides command-backed implementations of them.
package host

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Resolver triggers the external dependency-resolution tool, which scans
// the staged manifests and fetches the declared packages.
type Resolver interface {
	Resolve(ctx context.Context) error
}

// AssetIndex is refreshed whenever the reconcilers change files the host
// tracks.
type AssetIndex interface {
	Refresh() error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context) error

func (f ResolverFunc) Resolve(ctx context.Context) error { return f(ctx) }

// AssetIndexFunc adapts a function to the AssetIndex interface.
type AssetIndexFunc func() error

func (f AssetIndexFunc) Refresh() error { return f() }

// Nop is a Resolver and AssetIndex that does nothing.
var Nop nop

type nop struct{}

func (nop) Resolve(context.Context) error { return nil }
func (nop) Refresh() error                { return nil }

// commandResolver runs an external command to resolve dependencies.
type commandResolver struct {
	name string
	args []string
	dir  string
	env  []string
}

// CommandOption configures a command-backed Resolver.
type CommandOption func(*commandResolver)

// WithDir sets the working directory of the command.
func WithDir(dir string) CommandOption {
	return func(c *commandResolver) {
		c.dir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the command environment.
func WithEnv(env ...string) CommandOption {
	return func(c *commandResolver) {
		c.env = append(c.env, env...)
	}
}

// NewCommandResolver returns a Resolver that runs command, a shell-like
// word list such as "gradle resolveDependencies". An empty command yields Nop.
func NewCommandResolver(command string, opts ...CommandOption) Resolver {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Nop
	}
	c := &commandResolver{name: fields[0], args: fields[1:]}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandResolver) Resolve(ctx context.Context) error {
	_, err := c.output(ctx)
	return err
}

func (c *commandResolver) output(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	if len(c.env) > 0 {
		cmd.Env = append(cmd.Environ(), c.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %s", c.name, msg)
		}
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	return stdout.String(), nil
}
