package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backfill",
		Short:         "Offline maintenance jobs for recruitment data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newElapsedCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
