package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
)

// navCmd navigates the console to a named step
var navCmd = &cobra.Command{
	Use:   "nav [kind] [step]",
	Short: "Navigate the console to a step of a top level collection",
	Long: `Walks the navigation graph to the step and reports the view reached.

Example:
  cfme nav MigrationPlanCollection Add
  cfme nav DialogCollection All`,
	Args: cobra.ExactArgs(2),
	RunE: runNav,
}

func runNav(cmd *cobra.Command, args []string) error {
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		dest, err := a.Destination(args[0])
		if err != nil {
			return err
		}
		v, err := a.Graph.NavigateTo(ctx, dest, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reached %s/%s (%T)\n", args[0], args[1], v)
		return nil
	})
}
