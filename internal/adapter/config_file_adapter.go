package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// ConfigurationVersion is the only supported configuration document version.
const ConfigurationVersion = 1

// ConfigurationDocument is the on-disk shape of a fixture configuration file.
type ConfigurationDocument struct {
	Version  int               `yaml:"version" validate:"eq=1"`
	Fixtures []FixtureDocument `yaml:"fixtures" validate:"dive"`
}

// FixtureDocument configures one fixture item. The inline value applies to
// base type items.
type FixtureDocument struct {
	Type          string                    `yaml:"type" validate:"required"`
	Name          string                    `yaml:"name,omitempty"`
	Root          string                    `yaml:"root,omitempty"`
	Constructor   string                    `yaml:"constructor,omitempty"`
	ValueDocument `yaml:",inline"`
	Parameters    map[string]MemberDocument `yaml:"parameters,omitempty" validate:"dive"`
	Members       map[string]MemberDocument `yaml:"members,omitempty" validate:"dive"`
}

// MemberDocument configures one member or constructor parameter.
type MemberDocument struct {
	ValueDocument `yaml:",inline"`
	Type          string `yaml:"type,omitempty"`
	Kind          string `yaml:"kind,omitempty" validate:"omitempty,oneof=field property method"`
}

// ValueDocument holds the value definition alternatives. At most one may be set
// on a fixture, exactly one on a member.
type ValueDocument struct {
	Value     yaml.Node     `yaml:"value,omitempty" validate:"-"`
	Unique    bool          `yaml:"unique,omitempty"`
	Null      bool          `yaml:"null,omitempty"`
	Undefined bool          `yaml:"undefined,omitempty"`
	Link      *LinkDocument `yaml:"link,omitempty"`
}

// LinkDocument names the fixture item a member links to.
type LinkDocument struct {
	Type string `yaml:"type" validate:"required"`
	Name string `yaml:"name,omitempty"`
	Root string `yaml:"root,omitempty"`
}

func (v ValueDocument) count() int {
	n := 0

	for _, set := range []bool{v.Value.Kind != 0, v.Unique, v.Null, v.Undefined, v.Link != nil} {
		if set {
			n++
		}
	}

	return n
}

// Definition converts the document into a value definition, nil when none is set.
func (v ValueDocument) Definition() m.ValueDefinition {
	switch {
	case v.Value.Kind != 0:
		node := v.Value
		return m.RawValue{Value: &node}
	case v.Unique:
		return m.UniqueValue{}
	case v.Null:
		return m.Null
	case v.Undefined:
		return m.Undefined
	case v.Link != nil:
		return m.LinkValue{Target: m.FixtureItemID{
			Name:         v.Link.Name,
			TypeFullName: m.TypeFullName(v.Link.Type),
			RootItemPath: v.Link.Root,
		}}
	default:
		return nil
	}
}

// ConfigFileAdapter reads fixture configuration files.
type ConfigFileAdapter interface {
	// Decode parses and validates a configuration document.
	Decode(path string, content []byte) (*ConfigurationDocument, error)

	// Load reads the file at path and converts it into configuration items.
	Load(path string) ([]m.ConfigurationItem, error)

	// Encode renders a configuration document.
	Encode(doc *ConfigurationDocument) ([]byte, error)
}

// LocalConfigFileAdapter is the yaml.v3 backed ConfigFileAdapter.
type LocalConfigFileAdapter struct {
	fs       ConfigFSAdapter
	validate *validator.Validate
}

// NewLocalConfigFileAdapter constructs a LocalConfigFileAdapter reading through fs.
func NewLocalConfigFileAdapter(fs ConfigFSAdapter) *LocalConfigFileAdapter {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &LocalConfigFileAdapter{fs: fs, validate: validate}
}

// Decode implements ConfigFileAdapter.
func (a *LocalConfigFileAdapter) Decode(path string, content []byte) (*ConfigurationDocument, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var doc ConfigurationDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty configuration document", path)
		}

		return nil, fmt.Errorf("%s: failed to parse configuration: %w", path, err)
	}

	if err := a.validateDocument(path, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Load implements ConfigFileAdapter.
func (a *LocalConfigFileAdapter) Load(path string) ([]m.ConfigurationItem, error) {
	content, err := a.fs.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read configuration file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	doc, err := a.Decode(path, content)
	if err != nil {
		return nil, err
	}

	items := doc.Items()
	slog.Debug("loaded configuration file", "path", path, "items", len(items))

	return items, nil
}

// Encode implements ConfigFileAdapter.
func (a *LocalConfigFileAdapter) Encode(doc *ConfigurationDocument) ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	return buf.Bytes(), nil
}

// Items converts the document into configuration items, one per fixture.
func (doc *ConfigurationDocument) Items() []m.ConfigurationItem {
	items := make([]m.ConfigurationItem, 0, len(doc.Fixtures))

	for _, fixture := range doc.Fixtures {
		item := m.NewConfigurationItem(m.FixtureItemID{
			Name:         fixture.Name,
			TypeFullName: m.TypeFullName(fixture.Type),
			RootItemPath: fixture.Root,
		})
		item.FixtureConfiguration.Constructor = fixture.Constructor
		item.Value = fixture.Definition()

		for name, member := range fixture.Members {
			item.MemberConfigurations[name] = member.configuration(name, m.MemberKind(member.Kind))
		}

		for name, param := range fixture.Parameters {
			item.ConstructorParameters[name] = param.configuration(name, m.MemberParameter)
		}

		items = append(items, item)
	}

	return items
}

func (d MemberDocument) configuration(name string, kind m.MemberKind) m.MemberConfiguration {
	return m.MemberConfiguration{
		Name:   name,
		Kind:   kind,
		Type:   m.TypeFullName(d.Type),
		Value:  d.Definition(),
		Source: m.SourceUser,
	}
}

func (a *LocalConfigFileAdapter) validateDocument(path string, doc *ConfigurationDocument) error {
	var errs []error

	if err := a.validate.Struct(doc); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("%s: failed to validate configuration: %w", path, err)
		}

		for _, e := range validationErrors {
			errs = append(errs, fmt.Errorf("%s: %s: %s", path, fieldPath(e.Namespace()), validationMessage(e)))
		}
	}

	for i, fixture := range doc.Fixtures {
		prefix := fmt.Sprintf("fixtures[%d]", i)

		if fixture.count() > 1 {
			errs = append(errs, fmt.Errorf("%s: %s: at most one of value, unique, null, undefined or link may be set", path, prefix))
		}

		errs = append(errs, validateMembers(path, prefix+".members", fixture.Members)...)
		errs = append(errs, validateMembers(path, prefix+".parameters", fixture.Parameters)...)
	}

	return errors.Join(errs...)
}

func validateMembers(path, prefix string, members map[string]MemberDocument) []error {
	var errs []error

	for name, member := range members {
		if member.count() != 1 {
			errs = append(errs, fmt.Errorf("%s: %s[%s]: exactly one of value, unique, null, undefined or link must be set", path, prefix, name))
		}
	}

	return errs
}

// fieldPath drops the root struct name and inlined structs from a validator namespace.
func fieldPath(namespace string) string {
	namespace = strings.ReplaceAll(namespace, ".ValueDocument", "")

	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}

	return namespace
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "eq":
		return fmt.Sprintf("must be %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	default:
		return fmt.Sprintf("failed %q validation", e.Tag())
	}
}
