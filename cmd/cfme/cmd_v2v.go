package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
	"github.com/v2v-test/integration-tests/internal/fixtures"
	"github.com/v2v-test/integration-tests/internal/v2v"
)

// v2vCmd drives the migration wizards
var v2vCmd = &cobra.Command{
	Use:   "v2v",
	Short: "Create infrastructure mappings and migration plans",
}

var v2vMappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Infrastructure mappings",
}

var v2vPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Migration plans",
}

var v2vFile string

var v2vMappingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an infrastructure mapping from a YAML form",
	Long: `Fills the infrastructure mapping wizard with the form in -f.

Example file:
  general:
    name: infra_map_1
  cluster:
    mappings:
      - sources: [Datacenter \ Cluster]
        target: [Default \ Default]
  datastore:
    Cluster (Default):
      mappings:
        - sources: [NFS_Datastore_1]
          target: [hosted_storage]
  network:
    Cluster (Default):
      mappings:
        - sources: [VM Network]
          target: [ovirtmgmt]`,
	Args: cobra.NoArgs,
	RunE: runMappingCreate,
}

var v2vPlanCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a migration plan from YAML options",
	Long: `Runs the migration plan wizard with the options in -f.

Example file:
  name: plan_1
  infra_map: infra_map_1
  import: via_csv
  start_migration: true
  vms:
    - name: vm_1
      provider: vsphere65`,
	Args: cobra.NoArgs,
	RunE: runPlanCreate,
}

func init() {
	for _, c := range []*cobra.Command{v2vMappingCreateCmd, v2vPlanCreateCmd} {
		c.Flags().StringVarP(&v2vFile, "file", "f", "", "YAML file (required)")
		_ = c.MarkFlagRequired("file")
	}
	v2vMappingCmd.AddCommand(v2vMappingCreateCmd)
	v2vPlanCmd.AddCommand(v2vPlanCreateCmd)
	v2vCmd.AddCommand(v2vMappingCmd)
	v2vCmd.AddCommand(v2vPlanCmd)
}

func runMappingCreate(cmd *cobra.Command, args []string) error {
	form, err := fixtures.LoadAs[v2v.MappingForm](v2vFile)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		m, err := a.Mappings.Create(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created infrastructure mapping %s\n", m.Name)
		return nil
	})
}

func runPlanCreate(cmd *cobra.Command, args []string) error {
	o, err := fixtures.LoadAs[v2v.PlanOptions](v2vFile)
	if err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		p, err := a.Plans.Create(ctx, o)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created migration plan %s\n", p.Name)
		return nil
	})
}
