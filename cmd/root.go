package cmd

import (
	"fmt"
	"os"

	"github.com/osdev-go/ksync/cmd/stress"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ksync",
		Short: "kernel-style spin lock primitives",
		Long: fmt.Sprintf(`ksync (v%s)

Spin lock primitives for a preemptible multiprocessor kernel model:
a non-recursive spin lock, a recursive spin lock, and a scope-bound
guard, running on simulated per-core processor contexts.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ksync",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ksync v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(stress.StressCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
