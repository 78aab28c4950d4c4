package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v2v-test/integration-tests/internal/appliance"
	"github.com/v2v-test/integration-tests/internal/navigation"
)

// graphCmd shows the navigation graph
var graphCmd = &cobra.Command{
	Use:   "graph [kind step]",
	Short: "List the registered navigation steps or print the route to one",
	Long: `Without arguments, lists every registered step grouped by kind.
With a kind and a step, prints the chain of steps a navigation would
walk from the logged in root, without touching the browser.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or a kind and a step, got %d", len(args))
		}
		return nil
	},
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	return withAppliance(func(_ context.Context, a *appliance.Appliance) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			printSteps(out, a.Graph.Steps())
			return nil
		}
		dest, err := a.Destination(args[0])
		if err != nil {
			return err
		}
		path, err := a.Graph.Path(dest, args[1])
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			return err
		}
		printPath(out, path)
		return nil
	})
}

func printSteps(w io.Writer, keys []navigation.Key) {
	var kind string
	for _, k := range keys {
		if k.Kind != kind {
			kind = k.Kind
			fmt.Fprintln(w, kindStyle.Render(kind))
		}
		fmt.Fprintln(w, "  "+stepStyle.Render(k.Name))
	}
}

func printPath(w io.Writer, path []navigation.Key) {
	hops := make([]string, len(path))
	for i, k := range path {
		hops[i] = kindStyle.Render(k.Kind) + mutedStyle.Render("/") + stepStyle.Render(k.Name)
	}
	fmt.Fprintln(w, strings.Join(hops, arrow))
}
