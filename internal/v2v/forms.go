package v2v

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/v2v-test/integration-tests/internal/widget"
)

// MappingRule maps source items onto target items on one wizard page.
type MappingRule struct {
	Sources []widget.Match `yaml:"sources"`
	Target  []widget.Match `yaml:"target"`
}

// Mappings is the value of the cluster page.
type Mappings struct {
	Mappings []MappingRule `yaml:"mappings"`
}

// ClusterMappings are the rules filled while one target cluster is selected.
type ClusterMappings struct {
	Cluster  string
	Mappings []MappingRule
}

// ClusterMappingList is the value of the datastore and network pages. In
// YAML it is a mapping keyed by cluster name; declaration order is kept.
type ClusterMappingList []ClusterMappings

// UnmarshalYAML decodes {cluster: {mappings: [...]}, ...} in document order.
func (l *ClusterMappingList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of cluster name to mappings", n.Line)
	}
	out := make(ClusterMappingList, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var m Mappings
		if err := n.Content[i+1].Decode(&m); err != nil {
			return fmt.Errorf("cluster %q: %w", n.Content[i].Value, err)
		}
		out = append(out, ClusterMappings{Cluster: n.Content[i].Value, Mappings: m.Mappings})
	}
	*l = out
	return nil
}

// MarshalYAML writes the list back as an ordered mapping.
func (l ClusterMappingList) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range l {
		var v yaml.Node
		if err := v.Encode(Mappings{Mappings: c.Mappings}); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c.Cluster}, &v)
	}
	return n, nil
}

// General is the first page of both wizards.
type General struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// MappingForm is everything the infrastructure mapping wizard is filled with.
type MappingForm struct {
	General   General            `yaml:"general"`
	Cluster   Mappings           `yaml:"cluster"`
	Datastore ClusterMappingList `yaml:"datastore"`
	Network   ClusterMappingList `yaml:"network"`
}

// Validate checks the form has what the wizard cannot proceed without.
func (f MappingForm) Validate() error {
	if f.General.Name == "" {
		return fmt.Errorf("mapping name is required")
	}
	if len(f.Cluster.Mappings) == 0 {
		return fmt.Errorf("mapping %s: at least one cluster mapping is required", f.General.Name)
	}
	return nil
}

// ImportMethod is how VMs are chosen for a migration plan.
type ImportMethod int

const (
	// ImportViaDiscovery picks VMs from the table the wizard discovers.
	ImportViaDiscovery ImportMethod = iota
	// ImportViaCSV uploads a CSV file listing the VMs.
	ImportViaCSV
)

func (m ImportMethod) String() string {
	switch m {
	case ImportViaCSV:
		return "via_csv"
	case ImportViaDiscovery:
		return "via_discovery"
	}
	return fmt.Sprintf("ImportMethod(%d)", int(m))
}

// ParseImportMethod accepts via_csv, csv, via_discovery and discovery.
func ParseImportMethod(s string) (ImportMethod, error) {
	switch s {
	case "via_csv", "csv":
		return ImportViaCSV, nil
	case "via_discovery", "discovery", "":
		return ImportViaDiscovery, nil
	}
	return ImportViaDiscovery, fmt.Errorf("unknown import method %q (valid: via_csv, via_discovery)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m ImportMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ImportMethod) UnmarshalText(b []byte) error {
	v, err := ParseImportMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// VM is a virtual machine to migrate.
type VM struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
}

// PlanOptions is everything the migration plan wizard is filled with.
type PlanOptions struct {
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description,omitempty"`
	InfraMap       string       `yaml:"infra_map"`
	VMs            []VM         `yaml:"vms"`
	Import         ImportMethod `yaml:"import"`
	StartMigration bool         `yaml:"start_migration"`
}

// Validate checks the options are complete.
func (o PlanOptions) Validate() error {
	switch {
	case o.Name == "":
		return fmt.Errorf("plan name is required")
	case o.InfraMap == "":
		return fmt.Errorf("plan %s: infrastructure mapping is required", o.Name)
	case len(o.VMs) == 0:
		return fmt.Errorf("plan %s: at least one VM is required", o.Name)
	}
	if o.Import == ImportViaCSV {
		for _, vm := range o.VMs {
			if vm.Provider == "" {
				return fmt.Errorf("plan %s: VM %s needs a provider for CSV import", o.Name, vm.Name)
			}
		}
	}
	return nil
}

// ResultMessage is the message the results page shows once the plan is created.
func (o PlanOptions) ResultMessage() string {
	if o.StartMigration {
		return fmt.Sprintf("Migration Plan: '%s' is in progress", o.Name)
	}
	return fmt.Sprintf("Migration Plan: '%s' has been saved", o.Name)
}
