// Package commands wires the orglens CLI: snapshot sync, schema queries,
// diagram generation, diffing, and the server modes.
package commands

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orglens",
		Short: "Salesforce org schema snapshots, queries, and diagrams",
		Long: color.CyanString(`orglens - Salesforce org schema explorer

orglens caches object describes from a Salesforce org and answers schema
questions locally: search, field details, relationship traversal, ER and
hierarchy diagrams, and snapshot diffs.

Features:
  • Local snapshot cache, one JSON document per object
  • Relationship graph with depth and direction control
  • Mermaid and PlantUML diagram output
  • Snapshot diffing with breaking-change detection
  • MCP server (stdio and HTTP) for agent integrations
  • Serve mode with a REST API and live schema updates`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("cache-dir", "", "snapshot cache root (default ~/.orglens)")
	rootCmd.PersistentFlags().String("org", "", "registered org alias to operate on")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	}

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewDescribeCommand())
	rootCmd.AddCommand(NewRelationshipsCommand())
	rootCmd.AddCommand(NewERCommand())
	rootCmd.AddCommand(NewHierarchyCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewMetaCommand())
	rootCmd.AddCommand(NewOrgsCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMCPCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the orglens version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "orglens version: ")
			color.New(color.FgWhite).Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			color.New(color.FgWhite).Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			color.New(color.FgWhite).Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			color.New(color.FgWhite).Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// ExitCode maps an Execute error to the process exit code. Breaking
// schema changes exit 2 so CI can tell them apart from hard failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errBreakingChanges):
		return 2
	}
	return 1
}
