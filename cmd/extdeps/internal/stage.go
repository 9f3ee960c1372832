package internal

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goplus/extdeps/pkgs/platform"
)

var stagePlatform = platform.Android

var stageCmd = &cobra.Command{
	Use:   "stage --platform <android|ios>",
	Short: "Run the pre-build reconciliation only",
	Long: `Stage writes the Android manifests or activates the iOS dependency files the
enabled modules need, without running a build. Use clean to undo it.`,
	Args: cobra.NoArgs,
	RunE: runStage,
}

func init() {
	stageCmd.Flags().Var(&stagePlatform, "platform", "Build target platform (android, ios, other)")
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	sess, err := p.session(false)
	if err != nil {
		return p.finish(err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return p.finish(sess.PreBuild(ctx, stagePlatform, p.settings))
}
