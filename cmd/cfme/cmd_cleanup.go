package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
)

// cleanupCmd removes records left behind by earlier runs
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete the generic object definitions still listed in the ledger",
	Args:  cobra.NoArgs,
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		removed, err := a.Cleanup(ctx)
		for _, name := range removed {
			fmt.Fprintln(cmd.OutOrStdout(), "removed "+name)
		}
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
		}
		return err
	})
}
