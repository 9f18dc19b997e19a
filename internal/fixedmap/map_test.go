package fixedmap_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

type color uint8

const (
	red color = iota
	green
	blue
)

var colors = fixedmap.NewTable("Red", "Green", "Blue")

func (c color) String() string       { return colors.Name(int(c)) }
func (color) Table() *fixedmap.Table { return colors }

func TestNewTable_PanicsOnDuplicateFold(t *testing.T) {
	assert.Panics(t, func() { fixedmap.NewTable("English", "english") })
	assert.Panics(t, func() { fixedmap.NewTable() })
}

func TestParse_IgnoresCase(t *testing.T) {
	c, err := fixedmap.Parse[color]("gREEN")
	require.NoError(t, err)
	assert.Equal(t, green, c)

	_, err = fixedmap.Parse[color]("Purple")
	assert.ErrorIs(t, err, fixedmap.ErrUnknownKey)
}

func TestMap_ZeroValueReadsZero(t *testing.T) {
	var m fixedmap.Map[color, string]
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "", m.Get(blue))

	m.Set(blue, "b")
	assert.Equal(t, "b", m.Get(blue))
	assert.Equal(t, "", m.Get(red))
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := fixedmap.Of(func(c color) int { return int(c) * 10 })
	c := m.Clone()
	c.Set(red, 99)
	assert.Equal(t, 0, m.Get(red))
	assert.Equal(t, 20, c.Get(blue))
}

func TestTransform(t *testing.T) {
	m := fixedmap.Of(func(c color) int { return int(c) })
	names := fixedmap.Transform(m, func(c color, v int) string { return c.String() })
	assert.Equal(t, "Blue", names.Get(blue))
}

func TestMap_JSONKeepsCodeOrder(t *testing.T) {
	m := fixedmap.New[color, int]()
	m.Set(red, 1)
	m.Set(blue, 3)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Red":1,"Green":0,"Blue":3}`, string(b))
	assert.Equal(t, `{"Red":1,"Green":0,"Blue":3}`, string(b))
}

func TestMap_JSONDecode(t *testing.T) {
	var m fixedmap.Map[color, int]
	require.NoError(t, json.Unmarshal([]byte(`{"blue":3}`), &m))
	assert.Equal(t, 3, m.Get(blue))
	assert.Equal(t, 0, m.Get(red))

	err := json.Unmarshal([]byte(`{"Purple":1}`), &m)
	assert.ErrorIs(t, err, fixedmap.ErrUnknownKey)
}

func TestMap_YAMLKeepsCodeOrder(t *testing.T) {
	m := fixedmap.Of(func(c color) string { return c.String() + "!" })
	b, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "Red: Red!\nGreen: Green!\nBlue: Blue!\n", string(b))

	var back fixedmap.Map[color, string]
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, "Green!", back.Get(green))
}

func TestMap_YAMLRejectsUnknownKey(t *testing.T) {
	var m fixedmap.Map[color, string]
	err := yaml.Unmarshal([]byte("Purple: x\n"), &m)
	assert.ErrorIs(t, err, fixedmap.ErrUnknownKey)
}

func TestDecode_RejectsKeysRepeatedUnderCase(t *testing.T) {
	var m fixedmap.Map[color, string]
	err := json.Unmarshal([]byte(`{"Red":"a","red":"b"}`), &m)
	assert.ErrorIs(t, err, fixedmap.ErrDuplicateKey)

	var s fixedmap.Sparse[color, string]
	err = json.Unmarshal([]byte(`{"Blue":"a","Red":"r","BLUE":"b"}`), &s)
	assert.ErrorIs(t, err, fixedmap.ErrDuplicateKey)

	err = yaml.Unmarshal([]byte("Green: a\ngreen: b\n"), &m)
	assert.ErrorIs(t, err, fixedmap.ErrDuplicateKey)

	err = yaml.Unmarshal([]byte("Red: a\nBlue: b\nrED: c\n"), &s)
	assert.ErrorIs(t, err, fixedmap.ErrDuplicateKey)
}

func TestMap_JSONRejectsNonObject(t *testing.T) {
	var m fixedmap.Map[color, int]
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
}

func TestSparse_OnlyPresentKeys(t *testing.T) {
	var s fixedmap.Sparse[color, string]
	s.Set(blue, "b")
	s.Set(red, "r")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get(green)
	assert.False(t, ok)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"Red":"r","Blue":"b"}`, string(b))

	var back fixedmap.Sparse[color, string]
	require.NoError(t, json.Unmarshal([]byte(`{"green":""}`), &back))
	v, ok := back.Get(green)
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, 1, back.Len())
}

func TestPick(t *testing.T) {
	m := fixedmap.Of(func(c color) string { return c.String() })
	s := fixedmap.Pick(m, []color{green})
	got, ok := s.Get(green)
	assert.True(t, ok)
	assert.Equal(t, "Green", got)
	assert.Equal(t, 1, s.Len())
}

// TestMap_AllVisitsEveryKeyOnce is a property-based test: regardless of which
// keys were written, All yields exactly Len entries in ascending code order.
func TestMap_AllVisitsEveryKeyOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var m fixedmap.Map[color, int]
		writes := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(rt, "writes")
		for i, w := range writes {
			m.Set(color(w), i)
		}
		var seen []color
		for k := range m.All() {
			seen = append(seen, k)
		}
		assert.Equal(rt, []color{red, green, blue}, seen)
	})
}
