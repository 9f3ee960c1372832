package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/extdeps/internal/android"
	"github.com/goplus/extdeps/internal/build"
	"github.com/goplus/extdeps/internal/ios"
	"github.com/goplus/extdeps/internal/modules"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/pkgs/platform"
)

var statusPlatform = platform.Android

var statusCmd = &cobra.Command{
	Use:   "status --platform <android|ios>",
	Short: "Show module enablement and dependency files",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Var(&statusPlatform, "platform", "Build target platform (android, ios, other)")
	rootCmd.AddCommand(statusCmd)
}

type moduleStatus struct {
	Name    string
	Enabled bool
	Files   []string
}

// moduleStatuses evaluates every module of reg for p under s.
func moduleStatuses(reg *modules.Registry, s *settings.Snapshot, p platform.Platform) ([]moduleStatus, error) {
	var out []moduleStatus
	for _, m := range reg.Modules() {
		enabled, err := reg.IsEnabled(m, s, p)
		if err != nil {
			return nil, err
		}
		st := moduleStatus{Name: m.Name(), Enabled: enabled}
		switch p {
		case platform.Android:
			if m.AndroidDependencies(s) != "" {
				st.Files = []string{m.Name() + "Dependencies.xml"}
			}
		case platform.IOS:
			for _, name := range m.IOSTemplateNames() {
				st.Files = append(st.Files, name+ios.TemplateExt)
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func writeStatus(w io.Writer, p platform.Platform, mods []moduleStatus, present []string, rec *build.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "MODULE\t%s\tFILES\n", strings.ToUpper(p.String()))
	for _, m := range mods {
		state := "disabled"
		if m.Enabled {
			state = "enabled"
		}
		files := "-"
		if len(m.Files) > 0 {
			files = strings.Join(m.Files, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, state, files)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\non disk: %s\n", orNone(present))
	if rec != nil {
		fmt.Fprintf(w, "last pre-build: %s at %s (batch=%t)\n", rec.Platform, rec.BuildTime.Format("2006-01-02 15:04:05"), rec.Batch)
	}
	return nil
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	mods, err := moduleStatuses(modules.Default(), p.settings, statusPlatform)
	if err != nil {
		return err
	}

	var present []string
	switch statusPlatform {
	case platform.Android:
		if present, err = android.New(p.layout.StagingDir(), modules.Default()).Manifests(); err != nil {
			return err
		}
	case platform.IOS:
		entries, err := os.ReadDir(p.layout.EditorDir())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ios.TemplateExt) {
				present = append(present, e.Name())
			}
		}
	}

	rec, err := build.LoadRecord(p.layout.SessionFile())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("ignoring unreadable session record", "err", err)
	}
	return writeStatus(cmd.OutOrStdout(), statusPlatform, mods, present, rec)
}
