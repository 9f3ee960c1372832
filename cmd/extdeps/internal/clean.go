package internal

import (
	"context"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Undo the last pre-build",
	Long: `Clean deletes the Android staging directory, triggers resolution again and
deactivates the iOS dependency files the last pre-build recorded.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	sess, err := p.session(true)
	if err != nil {
		return p.finish(err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return p.finish(sess.Clean(ctx))
}
