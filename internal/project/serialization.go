package project

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Namespace identifies descriptor documents written by this package.
const Namespace = "urn:cloakproj:project:v1"

const schemaSemanticVersion = "1.0.0"
const semVerPattern = `^(?P<major>0|[1-9]\d*)\.(?P<minor>0|[1-9]\d*)\.(?P<patch>0|[1-9]\d*)(?:-(?P<prerelease>(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+(?P<buildmetadata>[0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`

var semanticVersionRegex = regexp.MustCompile(semVerPattern)
var semanticVersionMajorSubmatchIndex = semanticVersionRegex.SubexpIndex("major")

var ErrMalformed = errors.New("malformed project descriptor")
var ErrIncompatibleVersion = fmt.Errorf("%w: incompatible schema version", ErrMalformed)

type xmlProject struct {
	XMLName   xml.Name    `xml:"project"`
	Xmlns     string      `xml:"xmlns,attr,omitempty"`
	Version   string      `xml:"version,attr,omitempty"`
	BaseDir   string      `xml:"baseDir,attr,omitempty"`
	OutputDir string      `xml:"outputDir,attr,omitempty"`
	Seed      string      `xml:"seed,attr,omitempty"`
	Debug     string      `xml:"debug,attr,omitempty"`
	Rules     []xmlRule   `xml:"rule"`
	Modules   []xmlModule `xml:"module"`
	Probes    []string    `xml:"probePath"`
	Plugins   []xmlPlugin `xml:"plugin"`
}

type xmlModule struct {
	Path       string    `xml:"path,attr"`
	External   string    `xml:"external,attr,omitempty"`
	SNKey      string    `xml:"snKey,attr,omitempty"`
	SNKeyPass  string    `xml:"snKeyPass,attr,omitempty"`
	ModuleRule []xmlRule `xml:"rule"`
}

type xmlRule struct {
	Pattern     string          `xml:"pattern,attr"`
	Preset      string          `xml:"preset,attr,omitempty"`
	Inherit     string          `xml:"inherit,attr,omitempty"`
	Protections []xmlProtection `xml:"protection"`
}

type xmlProtection struct {
	ID        string        `xml:"id,attr"`
	Action    string        `xml:"action,attr,omitempty"`
	Arguments []xmlArgument `xml:"argument"`
}

type xmlArgument struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlPlugin struct {
	Path string `xml:"path,attr"`
}

// Encode writes the descriptor as an indented XML document.
func Encode(w io.Writer, d *Descriptor) error {
	doc := xmlProject{
		Xmlns:     Namespace,
		Version:   schemaSemanticVersion,
		BaseDir:   d.BaseDirectory,
		OutputDir: d.OutputDirectory,
		Seed:      d.Seed,
		Rules:     encodeRules(d.Rules),
		Probes:    d.ProbePaths.Values(),
	}
	if d.Debug {
		doc.Debug = "true"
	}
	for _, module := range d.Modules {
		entry := xmlModule{
			Path:       module.Path,
			SNKey:      module.SigningKeyPath,
			SNKeyPass:  module.SigningKeyPassword,
			ModuleRule: encodeRules(module.Rules),
		}
		if module.IsExternal {
			entry.External = "true"
		}
		doc.Modules = append(doc.Modules, entry)
	}
	for _, plugin := range d.PluginPaths.Values() {
		doc.Plugins = append(doc.Plugins, xmlPlugin{Path: plugin})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "\t")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeRules(rules []Rule) (encoded []xmlRule) {
	for _, rule := range rules {
		entry := xmlRule{
			Pattern: rule.Pattern,
			Preset:  string(rule.Preset),
			Inherit: strconv.FormatBool(rule.Inherit),
		}
		if rule.Preset == PresetNone {
			entry.Preset = ""
		}
		for _, protection := range rule.Protections {
			setting := xmlProtection{ID: protection.ID, Action: string(protection.Action)}
			if protection.Action == ActionAdd {
				setting.Action = ""
			}
			for _, argument := range protection.Arguments {
				setting.Arguments = append(setting.Arguments, xmlArgument(argument))
			}
			entry.Protections = append(entry.Protections, setting)
		}
		encoded = append(encoded, entry)
	}
	return
}

// Decode reads a descriptor document. Any structural problem yields an error wrapping ErrMalformed.
func Decode(r io.Reader) (*Descriptor, error) {
	var doc xmlProject
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	d := New()
	d.BaseDirectory = doc.BaseDir
	d.OutputDirectory = doc.OutputDir
	d.Seed = doc.Seed
	var err error
	if d.Debug, err = parseFlag("debug", doc.Debug, false); err != nil {
		return nil, err
	}
	if d.Rules, err = decodeRules(doc.Rules); err != nil {
		return nil, err
	}
	for i, entry := range doc.Modules {
		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("%w: module[%d] has no path", ErrMalformed, i)
		}
		module := &Module{
			Path:               entry.Path,
			SigningKeyPath:     entry.SNKey,
			SigningKeyPassword: entry.SNKeyPass,
		}
		if module.IsExternal, err = parseFlag("external", entry.External, false); err != nil {
			return nil, fmt.Errorf("module %s: %w", entry.Path, err)
		}
		if module.Rules, err = decodeRules(entry.ModuleRule); err != nil {
			return nil, fmt.Errorf("module %s: %w", entry.Path, err)
		}
		d.Modules = append(d.Modules, module)
	}
	for _, probe := range doc.Probes {
		if probe = strings.TrimSpace(probe); probe != "" {
			d.ProbePaths.Add(probe)
		}
	}
	for _, plugin := range doc.Plugins {
		if plugin.Path != "" {
			d.PluginPaths.Add(plugin.Path)
		}
	}
	return d, nil
}

func decodeRules(encoded []xmlRule) (rules []Rule, err error) {
	for i, entry := range encoded {
		rule := Rule{Pattern: entry.Pattern, Preset: PresetNone}
		switch preset := Preset(strings.ToLower(entry.Preset)); preset {
		case "":
		case PresetNone, PresetMinimum, PresetNormal, PresetAggressive, PresetMaximum:
			rule.Preset = preset
		default:
			return nil, fmt.Errorf("%w: rule[%d] has unknown preset %q", ErrMalformed, i, entry.Preset)
		}
		if rule.Inherit, err = parseFlag("inherit", entry.Inherit, true); err != nil {
			return nil, fmt.Errorf("rule[%d]: %w", i, err)
		}
		for _, setting := range entry.Protections {
			protection := ProtectionSetting{ID: setting.ID, Action: ActionAdd}
			switch action := SettingAction(strings.ToLower(setting.Action)); action {
			case "":
			case ActionAdd, ActionRemove:
				protection.Action = action
			default:
				return nil, fmt.Errorf("%w: protection %s in rule[%d] has unknown action %q", ErrMalformed, setting.ID, i, setting.Action)
			}
			for _, argument := range setting.Arguments {
				protection.Arguments = append(protection.Arguments, Argument(argument))
			}
			rule.Protections = append(rule.Protections, protection)
		}
		rules = append(rules, rule)
	}
	return
}

func parseFlag(name string, raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: attribute %s has bad value %q", ErrMalformed, name, raw)
	}
	return v, nil
}

// checkVersion accepts documents without version (written by other tools) and any version sharing the major version.
func checkVersion(fileVersion string) error {
	if fileVersion == "" {
		return nil
	}
	fileVersionMatch := semanticVersionRegex.FindStringSubmatch(fileVersion)
	if fileVersionMatch == nil {
		return fmt.Errorf("%w: version %q is not a semantic version", ErrMalformed, fileVersion)
	}
	appVersionMatch := semanticVersionRegex.FindStringSubmatch(schemaSemanticVersion)
	if fileVersionMatch[semanticVersionMajorSubmatchIndex] != appVersionMatch[semanticVersionMajorSubmatchIndex] {
		return fmt.Errorf("%w (%s)", ErrIncompatibleVersion, fileVersion)
	}
	return nil
}
