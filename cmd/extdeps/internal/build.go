package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/goplus/extdeps/internal/env"
	"github.com/goplus/extdeps/pkgs/platform"
)

var (
	buildPlatform = platform.Android
	buildBatch    bool
)

var buildCmd = &cobra.Command{
	Use:   "build --platform <android|ios> [--batch] -- <command> [args...]",
	Short: "Reconcile dependencies around a host build",
	Long: `Build stages the native dependencies of the enabled modules, runs the host
build command and, in batch mode, restores the project afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Var(&buildPlatform, "platform", "Build target platform (android, ios, other)")
	buildCmd.Flags().BoolVar(&buildBatch, "batch", env.BatchMode(), "Unattended build: undo dependency changes afterwards")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	sess, err := p.session(buildBatch)
	if err != nil {
		return p.finish(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = sess.Run(ctx, buildPlatform, p.settings, func(ctx context.Context) error {
		return hostBuild(ctx, p.layout.Root, args)
	})
	return p.finish(err)
}

// hostBuild runs the host build command in dir with the standard streams
// attached.
func hostBuild(ctx context.Context, dir string, args []string) error {
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Dir = dir
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	return nil
}
