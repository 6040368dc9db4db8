// Package cli implements the grpcwire command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grpcwire",
	Short: "grpcwire serves RPC contracts over the gRPC wire protocol",
	Long: `grpcwire is a wire-protocol mapping server. It compiles .proto service
definitions at startup and serves them over HTTP/2 using the gRPC framing
and status conventions, with no generated code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grpcwire %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}
