package automate

// Element types with type specific sub-fields.
const (
	TypeDropDownList = "Drop Down List"
	TypeRadioButton  = "Radio Button"
	TypeTextAreaBox  = "Text Area Box"
	TypeTextBox      = "Text Box"
	TypeCheckBox     = "Check Box"
)

// ElementInformation is the "Element Information" part of the element form.
type ElementInformation struct {
	Label       string `yaml:"ele_label"`
	Name        string `yaml:"ele_name"`
	Description string `yaml:"ele_desc,omitempty"`
	Type        string `yaml:"choose_type"`
}

// ElementOptions is the "Options" part of the element form. Nil and empty
// fields are left untouched.
type ElementOptions struct {
	DefaultTextBox    string `yaml:"default_text_box,omitempty"`
	DefaultValue      *bool  `yaml:"default_value,omitempty"`
	Required          *bool  `yaml:"field_required,omitempty"`
	PastDates         *bool  `yaml:"field_past_dates,omitempty"`
	EntryPoint        string `yaml:"field_entry_point,omitempty"`
	ShowRefreshButton *bool  `yaml:"field_show_refresh_button,omitempty"`
	Category          string `yaml:"field_category,omitempty"`
	Dynamic           bool   `yaml:"dynamic_chkbox,omitempty"`
}

// ElementData describes one dialog element.
type ElementData struct {
	Information ElementInformation `yaml:"element_information"`
	Options     *ElementOptions    `yaml:"options,omitempty"`

	// Static entry added to drop down and radio elements.
	EntryValue       string `yaml:"entry_value,omitempty"`
	EntryDescription string `yaml:"entry_description,omitempty"`
	// Automate method path of dynamic drop down and radio elements.
	DynamicPath []string `yaml:"dynamic_path,omitempty"`
}

// Defaults of the type specific sub-fields.
const (
	DefaultEntryValue       = "Yes"
	DefaultEntryDescription = "entry_desc"
	DefaultEntryPoint       = "b"
	DefaultTextAreaText     = "Default text"
)

// DefaultDynamicPath is the automate method dynamic elements are bound to.
var DefaultDynamicPath = []string{"Datastore", "new_domain", "System", "Request", "InspectMe"}

func (e ElementData) dynamic() bool {
	return e.Options != nil && e.Options.Dynamic
}

func (e ElementData) entryValue() string {
	if e.EntryValue != "" {
		return e.EntryValue
	}
	return DefaultEntryValue
}

func (e ElementData) entryDescription() string {
	if e.EntryDescription != "" {
		return e.EntryDescription
	}
	return DefaultEntryDescription
}

func (e ElementData) dynamicPath() []string {
	if len(e.DynamicPath) > 0 {
		return e.DynamicPath
	}
	return DefaultDynamicPath
}
