package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	projectDir   string
	settingsPath string
	resolveCmd   string
	batchResolve bool
	logLevel     string
	logFormat    string
	metricsFile  string
)

var rootCmd = &cobra.Command{
	Use:   "extdeps",
	Short: "extdeps reconciles native dependency manifests for mobile builds",
	Long: `extdeps decides which native dependencies the enabled feature modules need
for the current build target and writes them as Android manifests, active iOS
dependency files and define symbols.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&projectDir, "project", "C", ".", "Project directory (searched upwards for ProjectSettings)")
	pf.StringVar(&settingsPath, "settings", "", "Settings file (default <project>/extdeps.yaml)")
	pf.StringVar(&resolveCmd, "resolve-cmd", "", "Command that resolves staged dependencies")
	pf.BoolVar(&batchResolve, "batch-resolve", false, "Resolve once per build instead of once per manifest")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write session metrics to this Prometheus textfile")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
