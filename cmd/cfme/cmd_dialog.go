package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
	"github.com/v2v-test/integration-tests/internal/automate"
	"github.com/v2v-test/integration-tests/internal/fixtures"
)

// dialogCmd drives the service dialog editor
var dialogCmd = &cobra.Command{
	Use:   "dialog",
	Short: "Build service dialogs in the dialog editor",
}

var dialogElementCmd = &cobra.Command{
	Use:   "element",
	Short: "Dialog elements",
}

var dialogFile string

var dialogElementAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a dialog with one tab, one box and the given elements",
	Long: `Builds a new dialog in the editor from -f and saves it.

Example file:
  dialog: {label: test_dialog, description: built by cfme}
  tab: {label: tab_1}
  box: {label: box_1}
  elements:
    - element_information:
        ele_label: ele_1
        ele_name: ele_1
        choose_type: Drop Down List
      options:
        dynamic_chkbox: true`,
	Args: cobra.NoArgs,
	RunE: runDialogElementAdd,
}

func init() {
	dialogElementAddCmd.Flags().StringVarP(&dialogFile, "file", "f", "", "YAML file (required)")
	_ = dialogElementAddCmd.MarkFlagRequired("file")
	dialogElementCmd.AddCommand(dialogElementAddCmd)
	dialogCmd.AddCommand(dialogElementCmd)
}

type labelled struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// dialogForm is the file read by "dialog element add".
type dialogForm struct {
	Dialog   labelled               `yaml:"dialog"`
	Tab      labelled               `yaml:"tab"`
	Box      labelled               `yaml:"box"`
	Elements []automate.ElementData `yaml:"elements"`
}

func (f dialogForm) validate() error {
	for _, part := range []struct {
		what string
		l    labelled
	}{{"dialog", f.Dialog}, {"tab", f.Tab}, {"box", f.Box}} {
		if part.l.Label == "" {
			return fmt.Errorf("%s label is required", part.what)
		}
	}
	if len(f.Elements) == 0 {
		return fmt.Errorf("at least one element is required")
	}
	return nil
}

func runDialogElementAdd(cmd *cobra.Command, args []string) error {
	f, err := fixtures.LoadAs[dialogForm](dialogFile)
	if err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return err
	}
	return withAppliance(func(ctx context.Context, a *appliance.Appliance) error {
		d, err := a.Dialogs.Create(ctx, f.Dialog.Label, f.Dialog.Description)
		if err != nil {
			return err
		}
		tab, err := d.Tabs().Create(ctx, f.Tab.Label, f.Tab.Description)
		if err != nil {
			return err
		}
		box, err := tab.Boxes().Create(ctx, f.Box.Label, f.Box.Description)
		if err != nil {
			return err
		}
		el, err := box.Elements().Create(ctx, f.Elements)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved dialog %s with %d elements\n", d.Label, len(el.Data))
		return nil
	})
}
