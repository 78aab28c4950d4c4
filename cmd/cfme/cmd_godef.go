package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
	"github.com/v2v-test/integration-tests/internal/fixtures"
	"github.com/v2v-test/integration-tests/internal/genericobject"
)

// godefCmd manages generic object definitions over REST
var godefCmd = &cobra.Command{
	Use:   "godef",
	Short: "Create, update, delete generic object definitions",
}

var (
	godefDescription  string
	godefAttributes   []string
	godefAssociations []string
	godefMethods      []string
	godefNewName      string
	godefUnique       bool
)

var godefCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a generic object definition",
	Long: `Creates a definition. Attributes and associations are name:type pairs.

Example:
  cfme godef create widget --attr addr:string --attr count:integer \
    --assoc vms:Vm --method add_vm --unique`,
	Args: cobra.ExactArgs(1),
	RunE: runGodefCreate,
}

var godefUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update a generic object definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runGodefUpdate,
}

var godefDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a generic object definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runGodefDelete,
}

var godefExistsCmd = &cobra.Command{
	Use:   "exists [name]",
	Short: "Report whether a generic object definition exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runGodefExists,
}

func init() {
	for _, c := range []*cobra.Command{godefCreateCmd, godefUpdateCmd} {
		c.Flags().StringVar(&godefDescription, "description", "", "Description")
		c.Flags().StringArrayVar(&godefAttributes, "attr", nil, "Attribute as name:type (repeatable)")
		c.Flags().StringArrayVar(&godefAssociations, "assoc", nil, "Association as name:Class (repeatable)")
		c.Flags().StringArrayVar(&godefMethods, "method", nil, "Method name (repeatable)")
	}
	godefCreateCmd.Flags().BoolVar(&godefUnique, "unique", false, "Append a random suffix to the name")
	godefUpdateCmd.Flags().StringVar(&godefNewName, "new-name", "", "Rename the definition")

	godefCmd.AddCommand(godefCreateCmd)
	godefCmd.AddCommand(godefUpdateCmd)
	godefCmd.AddCommand(godefDeleteCmd)
	godefCmd.AddCommand(godefExistsCmd)
}

// parsePairs turns name:value flags into a map.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, ":")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("--%s %q: expected name:value", flag, p)
		}
		out[name] = value
	}
	return out, nil
}

func godefProperties() (genericobject.Properties, error) {
	attrs, err := parsePairs("attr", godefAttributes)
	if err != nil {
		return genericobject.Properties{}, err
	}
	assocs, err := parsePairs("assoc", godefAssociations)
	if err != nil {
		return genericobject.Properties{}, err
	}
	return genericobject.Properties{Attributes: attrs, Associations: assocs, Methods: godefMethods}, nil
}

func runGodefCreate(cmd *cobra.Command, args []string) error {
	props, err := godefProperties()
	if err != nil {
		return err
	}
	name := args[0]
	if godefUnique {
		name = fixtures.UniqueName(name)
	}
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		d, err := a.Definitions.Create(ctx, name, godefDescription, props)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", d.Name)
		return nil
	})
}

func runGodefUpdate(cmd *cobra.Command, args []string) error {
	props, err := godefProperties()
	if err != nil {
		return err
	}
	u := genericobject.Updates{
		Attributes:   props.Attributes,
		Associations: props.Associations,
		Methods:      props.Methods,
	}
	if cmd.Flags().Changed("new-name") {
		u.Name = &godefNewName
	}
	if cmd.Flags().Changed("description") {
		u.Description = &godefDescription
	}
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		d := a.Definitions.Instantiate(args[0], "", genericobject.Properties{})
		if err := d.Update(ctx, u); err != nil {
			return err
		}
		if d.RESTResponse == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s not found, nothing updated\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", d.Name)
		return nil
	})
}

func runGodefDelete(cmd *cobra.Command, args []string) error {
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		d := a.Definitions.Instantiate(args[0], "", genericobject.Properties{})
		if err := d.Delete(ctx); err != nil {
			return err
		}
		if d.RESTResponse == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s not found\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	})
}

func runGodefExists(cmd *cobra.Command, args []string) error {
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		ok, err := a.Definitions.Instantiate(args[0], "", genericobject.Properties{}).Exists(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	})
}
