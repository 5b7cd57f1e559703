package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON(t *testing.T) {
	r := MustDefine("Player", []Field{
		Required("name", String()),
		Optional("level", Int(), 1),
		Optional("nickname", Nullable(String()), nil),
	}, RejectUnknown())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Player",
		"strict": true,
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "level", "type": "int", "default": 1, "has_default": true},
			{"name": "nickname", "type": "string|null", "default": null, "has_default": true}
		]
	}`, string(data))
}

func TestUnmarshalRecord_RoundTrip(t *testing.T) {
	ability := MustDefine("Ability", []Field{Required("name", String())})
	reg, err := NewRegistry(ability)
	require.NoError(t, err)

	original := MustDefine("Mob", []Field{
		Required("name", String()),
		Optional("hp", Int(), 10),
		Optional("speed", Float(), 1.5),
		Optional("abilities", Seq(Ref(ability)), []any{}),
		Optional("loot", Map(String(), Int()), MappingOf("gold", 5)),
		Optional("boss", Nullable(String()), nil),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := UnmarshalRecord(data, reg)
	require.NoError(t, err)

	assert.Equal(t, original.Name(), parsed.Name())
	require.Len(t, parsed.Fields(), len(original.Fields()))
	for i, f := range original.Fields() {
		pf := parsed.Fields()[i]
		assert.Equal(t, f.Name, pf.Name)
		assert.Equal(t, f.Type.Name(), pf.Type.Name())
		assert.Equal(t, f.IsRequired(), pf.IsRequired())
		want, _ := f.Default.Get()
		got, _ := pf.Default.Get()
		assert.True(t, Equal(want, got), "default of %s: %v != %v", f.Name, want, got)
	}

	hp, _ := parsed.Field("hp")
	def, _ := hp.Default.Get()
	assert.Equal(t, int64(10), def, "integer defaults stay integers")
}

func TestParseRecordSpec_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec RecordSpec
	}{
		{"unknown type", RecordSpec{Name: "R", Fields: []FieldSpec{{Name: "a", Type: "widget"}}}},
		{"bad default", RecordSpec{Name: "R", Fields: []FieldSpec{{Name: "a", Type: "int", Default: "x", HasDefault: true}}}},
		{"null default for string", RecordSpec{Name: "R", Fields: []FieldSpec{{Name: "a", Type: "string", HasDefault: true}}}},
		{"no name", RecordSpec{Fields: []FieldSpec{{Name: "a", Type: "int"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecordSpec(tt.spec, nil)
			assert.ErrorIs(t, err, ErrMalformedDescriptor)
		})
	}
}
