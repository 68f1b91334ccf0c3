package adapter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

const validDocument = `version: 1
fixtures:
  - type: "*example.com/shop.Cart"
    name: primary
    root: CartTests
    constructor: NewCart
    parameters:
      owner: { value: "alice" }
    members:
      Total: { unique: true }
      Store: { link: { type: "example.com/shop.Store", name: main } }
      Logger: { null: true, kind: property }
      audit: { undefined: true, type: "example.com/shop.Audit" }
  - type: int
    value: 42
`

func TestLocalConfigFileAdapter_Decode(t *testing.T) {
	adapter := NewLocalConfigFileAdapter(NewLocalConfigFSAdapter())

	doc, err := adapter.Decode("fixtures.yaml", []byte(validDocument))
	require.NoError(t, err)
	require.Len(t, doc.Fixtures, 2)

	items := doc.Items()
	require.Len(t, items, 2)

	cart := items[0]
	assert.Equal(t, m.FixtureItemID{Name: "primary", TypeFullName: "*example.com/shop.Cart", RootItemPath: "CartTests"}, cart.ID)
	assert.Equal(t, "NewCart", cart.FixtureConfiguration.Constructor)
	assert.Nil(t, cart.Value)

	owner, ok := cart.Parameter("owner")
	require.True(t, ok)
	assert.Equal(t, m.MemberParameter, owner.Kind)
	assert.Equal(t, m.SourceUser, owner.Source)

	raw, ok := owner.Value.(m.RawValue)
	require.True(t, ok)

	var decoded string
	require.NoError(t, raw.Value.(*yaml.Node).Decode(&decoded))
	assert.Equal(t, "alice", decoded)

	total, _ := cart.Member("Total")
	assert.Equal(t, m.UniqueValue{}, total.Value)

	store, _ := cart.Member("Store")
	assert.Equal(t, m.LinkValue{Target: m.FixtureItemID{Name: "main", TypeFullName: "example.com/shop.Store"}}, store.Value)

	logger, _ := cart.Member("Logger")
	assert.Equal(t, m.MemberProperty, logger.Kind)
	assert.True(t, m.IsNull(logger.Value))

	audit, _ := cart.Member("audit")
	assert.True(t, m.IsUndefined(audit.Value))
	assert.Equal(t, m.TypeFullName("example.com/shop.Audit"), audit.Type)

	number := items[1]
	assert.Equal(t, m.NewFixtureItemID("int"), number.ID)
	require.IsType(t, m.RawValue{}, number.Value)
}

func TestLocalConfigFileAdapter_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty document",
			content: "",
			want:    []string{"empty configuration document"},
		},
		{
			name:    "unsupported version",
			content: "version: 2\nfixtures: []\n",
			want:    []string{"version: must be 1"},
		},
		{
			name:    "missing type",
			content: "version: 1\nfixtures:\n  - name: x\n",
			want:    []string{"fixtures[0].type: is required"},
		},
		{
			name:    "member without value",
			content: "version: 1\nfixtures:\n  - type: int\n    members:\n      Total: { type: int }\n",
			want:    []string{"fixtures[0].members[Total]: exactly one of"},
		},
		{
			name:    "member with two values",
			content: "version: 1\nfixtures:\n  - type: int\n    parameters:\n      p: { unique: true, null: true }\n",
			want:    []string{"fixtures[0].parameters[p]: exactly one of"},
		},
		{
			name:    "fixture with two values",
			content: "version: 1\nfixtures:\n  - type: int\n    unique: true\n    value: 1\n",
			want:    []string{"fixtures[0]: at most one of"},
		},
		{
			name:    "link without type",
			content: "version: 1\nfixtures:\n  - type: int\n    members:\n      Store: { link: { name: main } }\n",
			want:    []string{"fixtures[0].members[Store].link.type: is required"},
		},
		{
			name:    "bad member kind",
			content: "version: 1\nfixtures:\n  - type: int\n    members:\n      Store: { null: true, kind: parameter }\n",
			want:    []string{"kind: must be one of field property method"},
		},
		{
			name:    "unknown key",
			content: "version: 1\nfixtures:\n  - type: int\n    colour: red\n",
			want:    []string{"failed to parse configuration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewLocalConfigFileAdapter(NewLocalConfigFSAdapter())

			_, err := adapter.Decode("fixtures.yaml", []byte(tt.content))
			require.Error(t, err)

			assert.Contains(t, err.Error(), "fixtures.yaml")
			for _, fragment := range tt.want {
				assert.Contains(t, err.Error(), fragment)
			}
		})
	}
}

func TestLocalConfigFileAdapter_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	writeTestFile(t, path, validDocument)

	adapter := NewLocalConfigFileAdapter(NewLocalConfigFSAdapter())

	items, err := adapter.Load(path)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = adapter.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")
}

func TestLocalConfigFileAdapter_EncodeRoundTrip(t *testing.T) {
	adapter := NewLocalConfigFileAdapter(NewLocalConfigFSAdapter())

	doc := &ConfigurationDocument{
		Version: ConfigurationVersion,
		Fixtures: []FixtureDocument{{
			Type: "*example.com/shop.Cart",
			Members: map[string]MemberDocument{
				"Total": {ValueDocument: ValueDocument{Unique: true}},
			},
		}},
	}

	content, err := adapter.Encode(doc)
	require.NoError(t, err)

	decoded, err := adapter.Decode("encoded.yaml", content)
	require.NoError(t, err)
	require.Len(t, decoded.Fixtures, 1)
	assert.True(t, decoded.Fixtures[0].Members["Total"].Unique)
}
