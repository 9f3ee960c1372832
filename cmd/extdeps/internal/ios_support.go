package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var iosSupportCmd = &cobra.Command{
	Use:       "ios-support <enable|disable>",
	Short:     "Turn iOS support on or off",
	Long:      `Toggle the iOS support define symbol and the base iOS dependency file.
Enabling requires exactly one iOS resolver plugin in the project.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"enable", "disable"},
	RunE:      runIOSSupport,
}

func init() {
	rootCmd.AddCommand(iosSupportCmd)
}

func parseToggle(arg string) (bool, error) {
	switch arg {
	case "enable", "on", "true":
		return true, nil
	case "disable", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid argument %q: want enable or disable", arg)
}

func runIOSSupport(cmd *cobra.Command, args []string) error {
	enabled, err := parseToggle(args[0])
	if err != nil {
		return err
	}
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	sess, err := p.session(false)
	if err != nil {
		return p.finish(err)
	}
	return p.finish(sess.IOS().SetSupportEnabled(enabled))
}
