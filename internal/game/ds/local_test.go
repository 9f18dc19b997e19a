package ds_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/game/ds"
	"github.com/cory-johannsen/dloc/internal/serialize"
	"github.com/cory-johannsen/dloc/internal/testutil"
)

func sampleCore() []byte {
	return testutil.Core(
		testutil.Record(testutil.DSLocalizedMagic, testutil.DSLocalized(testutil.ID(0x20),
			testutil.DSEntry{Text: "Keep on keeping on", Note: "sam", Mode: 3},
			testutil.DSEntry{Text: "Continuez", Note: "", Mode: 1},
		)),
		testutil.Record(0x4242, []byte("opaque")),
	)
}

func open(t *testing.T, raw []byte) *ds.Local {
	t.Helper()
	l, err := ds.New(bytes.NewReader(raw))
	require.NoError(t, err)
	return l
}

func encode(t *testing.T, l *ds.Local) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, l.Write(&buf))
	return buf.Bytes()
}

func TestLanguageTable(t *testing.T) {
	assert.Equal(t, 25, fixedmap.Count[ds.Language]())
	assert.Equal(t, "Hungarian", ds.Hungarian.String())
	l, err := fixedmap.Parse[ds.Language]("latamsp")
	require.NoError(t, err)
	assert.Equal(t, ds.LATAMSP, l)
}

func TestNew_NoLocalResource(t *testing.T) {
	// An HZD record is opaque to DS.
	raw := testutil.Record(testutil.HZDLocalizedMagic, testutil.HZDLocalized(testutil.ID(0)))
	_, err := ds.New(bytes.NewReader(raw))
	assert.ErrorIs(t, err, serialize.ErrNoLocalResource)
}

func TestWrite_ByteIdentical(t *testing.T) {
	raw := sampleCore()
	assert.Equal(t, raw, encode(t, open(t, raw)))
}

func TestUpdate_PreservesNoteAndMode(t *testing.T) {
	l := open(t, sampleCore())
	var strs fixedmap.Sparse[ds.Language, string]
	strs.Set(ds.English, "Keep going")
	require.NoError(t, l.Update([]ds.Resource{{Index: 0, Strings: strs}}))

	want := testutil.Core(
		testutil.Record(testutil.DSLocalizedMagic, testutil.DSLocalized(testutil.ID(0x20),
			testutil.DSEntry{Text: "Keep going", Note: "sam", Mode: 3},
			testutil.DSEntry{Text: "Continuez", Note: "", Mode: 1},
		)),
		testutil.Record(0x4242, []byte("opaque")),
	)
	assert.Equal(t, want, encode(t, l))
}

func TestUpdate_Errors(t *testing.T) {
	l := open(t, sampleCore())

	var ierr *serialize.IndexError
	require.True(t, errors.As(l.Update([]ds.Resource{{Index: 7}}), &ierr))
	assert.Equal(t, 2, ierr.Max)

	var kerr *serialize.KindMismatchError
	require.True(t, errors.As(l.Update([]ds.Resource{{Index: 1}}), &kerr))
	assert.Equal(t, "opaque", kerr.Original)
}

func TestDocument_JSONAndYAML(t *testing.T) {
	doc := open(t, sampleCore()).ExportDocument([]ds.Language{ds.French, ds.English})

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"index": 0,
		"uuid": "20212223-2425-2627-2829-2a2b2c2d2e2f",
		"strings": {"English": "Keep on keeping on", "French": "Continuez"}
	}]`, string(b))

	y, err := yaml.Marshal(doc)
	require.NoError(t, err)
	out := string(y)
	assert.Contains(t, out, "English: Keep on keeping on")
	assert.Contains(t, out, "uuid: 20212223-2425-2627-2829-2a2b2c2d2e2f")
	assert.Less(t, strings.Index(out, "English:"), strings.Index(out, "French:"), "keys follow code order")
}

func TestImportDocument_YAML(t *testing.T) {
	l := open(t, sampleCore())
	doc := []byte("- index: 0\n  strings:\n    french: Continuez !\n")
	require.NoError(t, l.ImportDocument(func(v any) error { return yaml.Unmarshal(doc, v) }))

	got, _ := l.Resources(ds.French)[0].Strings.Get(ds.French)
	assert.Equal(t, "Continuez !", got)
}

func TestLines_RoundTripWithNames(t *testing.T) {
	raw := sampleCore()
	l := open(t, raw)
	lines, env := l.ExportLines([]ds.Language{ds.English, ds.French}, true)
	assert.Equal(t, []string{"English:: Keep on keeping on", "French:: Continuez"}, lines)
	require.Len(t, env.Info, 1)
	assert.Equal(t, serialize.Range{Start: 0, End: 2}, env.Info[0].Range)

	require.NoError(t, l.ImportLines(lines, env))
	assert.Equal(t, raw, encode(t, l))
}

func TestImportLines_CountMismatch(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]ds.Language{ds.English}, false)

	var cerr *serialize.LineCountError
	require.True(t, errors.As(l.ImportLines(lines[:0], env), &cerr))
	assert.Equal(t, 1, cerr.Expected)
	assert.Equal(t, 0, cerr.Got)
}

func TestImportDocument_MissingIndex(t *testing.T) {
	for name, decode := range map[string]func(v any) error{
		"json": func(v any) error { return json.Unmarshal([]byte(`[{"strings": {"English": "Edited"}}]`), v) },
		"yaml": func(v any) error { return yaml.Unmarshal([]byte("- strings:\n    English: Edited\n"), v) },
	} {
		raw := sampleCore()
		l := open(t, raw)
		err := l.ImportDocument(decode)
		assert.ErrorIs(t, err, serialize.ErrMissingIndex, name)
		assert.Equal(t, raw, encode(t, l), name)
	}
}
