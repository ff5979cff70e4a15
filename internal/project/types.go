package project

// Descriptor is the project-level configuration consumed by the protection engine.
type Descriptor struct {
	BaseDirectory   string //root for module path relativization, system-native
	OutputDirectory string //where the engine writes results
	Seed            string
	Debug           bool
	ProbePaths      PathSet //directories searched for dependency resolution
	PluginPaths     PathSet
	Modules         []*Module //insertion order is significant, first match wins
	Rules           []Rule
}

// Module is one assembly participating in the protection run.
type Module struct {
	// Path is a bare file name, a bare name without extension or a path relative to the base directory.
	// Paths outside the base directory are kept verbatim.
	Path               string
	IsExternal         bool //referenced but not protected itself
	SigningKeyPath     string
	SigningKeyPassword string
	Rules              []Rule
}

type Preset string

const (
	PresetNone       Preset = "none"
	PresetMinimum    Preset = "minimum"
	PresetNormal     Preset = "normal"
	PresetAggressive Preset = "aggressive"
	PresetMaximum    Preset = "maximum"
)

type SettingAction string

const (
	ActionAdd    SettingAction = "add"
	ActionRemove SettingAction = "remove"
)

// Rule is a group of protection settings applied to everything matching Pattern.
// Rules are opaque to synthesis and survive a load/save cycle unchanged.
type Rule struct {
	Pattern     string
	Preset      Preset
	Inherit     bool
	Protections []ProtectionSetting
}

type ProtectionSetting struct {
	ID        string
	Action    SettingAction
	Arguments []Argument //ordered
}

type Argument struct {
	Name  string
	Value string
}

// New creates an empty descriptor.
func New() *Descriptor {
	return &Descriptor{}
}

// NewRule yields a rule matching everything and inheriting from outer rules, the defaults of the document format.
func NewRule(protections ...ProtectionSetting) Rule {
	return Rule{Pattern: "true", Preset: PresetNone, Inherit: true, Protections: protections}
}
