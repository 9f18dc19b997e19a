package hzd_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dloc/internal/game/hzd"
	"github.com/cory-johannsen/dloc/internal/serialize"
	"github.com/cory-johannsen/dloc/internal/testutil"
)

func TestExportLines_LanguageThenEntryOrder(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]hzd.Language{hzd.French, hzd.English, hzd.French}, true)

	assert.Equal(t, []string{
		"English:: Hello",
		"French:: Bonjour",
		"English:: Run!",
		"English:: Now",
		"French:: Cours !",
	}, lines)
	assert.Equal(t, []hzd.Language{hzd.English, hzd.French}, env.Languages)
	assert.Equal(t, 5, env.Count)
	assert.Equal(t, []serialize.Span{
		{Index: 1, Range: serialize.Range{Start: 0, End: 2}, Variant: hzd.KindLocalized},
		{Index: 2, Range: serialize.Range{Start: 2, End: 5}, Variant: hzd.KindCutscene},
	}, env.Info)
}

func TestEnvelope_JSONShape(t *testing.T) {
	_, env := open(t, sampleCore()).ExportLines([]hzd.Language{hzd.English}, false)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"languages": ["English"],
		"add_language_names": false,
		"count": 3,
		"info": [
			{"index": 1, "range": {"start": 0, "end": 1}, "variant": "Localized"},
			{"index": 2, "range": {"start": 1, "end": 3}, "variant": "Cutscene"}
		]
	}`, string(b))
}

func TestImportLines_RoundTrip(t *testing.T) {
	raw := sampleCore()
	l := open(t, raw)
	lines, env := l.ExportLines([]hzd.Language{hzd.English, hzd.French}, true)

	require.NoError(t, l.ImportLines(lines, env))
	assert.Equal(t, raw, encode(t, l))
}

func TestImportLines_AppliesEdits(t *testing.T) {
	l := open(t, sampleCore())
	_, env := l.ExportLines([]hzd.Language{hzd.English, hzd.French}, true)

	// The second prefix lost its space in an editor; the third has none.
	edited := []string{"English:: Hi", "French::Salut", "Go!", "English:: Now", "French:: Cours !"}
	require.NoError(t, l.ImportLines(edited, env))

	res := l.Resources(hzd.English, hzd.French)
	en, _ := res[0].Localized.Get(hzd.English)
	fr, _ := res[0].Localized.Get(hzd.French)
	assert.Equal(t, "Hi", en)
	assert.Equal(t, "Salut", fr)
	subs, _ := res[1].Cutscene.Get(hzd.English)
	assert.Equal(t, []string{"Go!", "Now"}, subs)
}

func TestImportLines_CountMismatchChangesNothing(t *testing.T) {
	raw := sampleCore()
	l := open(t, raw)
	lines, env := l.ExportLines([]hzd.Language{hzd.English}, false)

	err := l.ImportLines(append(lines, "extra"), env)
	var cerr *serialize.LineCountError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 3, cerr.Expected)
	assert.Equal(t, 4, cerr.Got)
	assert.Equal(t, raw, encode(t, l))
}

func TestImportLines_LocalizedSpanLength(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]hzd.Language{hzd.English, hzd.French}, false)

	// Move one line from the cutscene span into the localized span.
	env.Info[0].Range.End++
	env.Info[1].Range.Start++
	err := l.ImportLines(lines, env)

	var lerr *serialize.LineCountError
	require.True(t, errors.As(err, &lerr), "localized span must hold one line per language")
}

func TestImportLines_CutsceneLinesError(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]hzd.Language{hzd.English, hzd.French}, false)

	// Drop the Localized span and give its two lines to the cutscene.
	env.Info[1].Range.Start = 0
	env.Info = env.Info[1:]
	err := l.ImportLines(lines, env)

	var lerr *hzd.CutsceneLinesError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, hzd.French, lerr.Language)
	assert.Equal(t, 1, lerr.Expected)
	assert.Equal(t, 3, lerr.Got)
}

func TestImportLines_RangeOutsideInput(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]hzd.Language{hzd.English}, false)
	env.Info[1].Range.End = 10

	var rerr *serialize.RangeError
	require.True(t, errors.As(l.ImportLines(lines, env), &rerr))
	assert.Equal(t, 2, rerr.Index)
}

func TestImportLines_VariantMismatch(t *testing.T) {
	l := open(t, sampleCore())
	lines, env := l.ExportLines([]hzd.Language{hzd.English}, false)
	env.Info[0].Variant = hzd.KindCutscene

	var kerr *serialize.KindMismatchError
	require.True(t, errors.As(l.ImportLines(lines, env), &kerr))
}

func TestExportDocument_Shape(t *testing.T) {
	raw := testutil.Core(
		testutil.Record(testutil.HZDLocalizedMagic, testutil.HZDLocalized(testutil.ID(0), "Hello", "Bonjour")),
	)
	doc := open(t, raw).ExportDocument([]hzd.Language{hzd.French, hzd.English})
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"index": 0,
		"uuid": "00010203-0405-0607-0809-0a0b0c0d0e0f",
		"Localized": {"English": "Hello", "French": "Bonjour"}
	}]`, string(b))
}

func TestImportDocument_SparseUpdate(t *testing.T) {
	raw := testutil.Core(
		testutil.Record(testutil.HZDLocalizedMagic, testutil.HZDLocalized(testutil.ID(0), "Hello", "Bonjour")),
	)
	l := open(t, raw)
	doc := []byte(`[{"index": 0, "Localized": {"english": "Hi"}}]`)
	require.NoError(t, l.ImportDocument(func(v any) error { return json.Unmarshal(doc, v) }))

	want := testutil.Core(
		testutil.Record(testutil.HZDLocalizedMagic, testutil.HZDLocalized(testutil.ID(0), "Hi", "Bonjour")),
	)
	assert.Equal(t, want, encode(t, l))
}

func TestImportDocument_MissingIndex(t *testing.T) {
	for name, decode := range map[string]func(v any) error{
		"json": func(v any) error { return json.Unmarshal([]byte(`[{"Localized": {"English": "Edited"}}]`), v) },
		"yaml": func(v any) error { return yaml.Unmarshal([]byte("- Localized:\n    English: Edited\n"), v) },
	} {
		raw := sampleCore()
		l := open(t, raw)
		err := l.ImportDocument(decode)
		assert.ErrorIs(t, err, serialize.ErrMissingIndex, name)
		assert.Equal(t, raw, encode(t, l), name)
	}
}

func TestImportDocument_ExplicitIndexZero(t *testing.T) {
	raw := testutil.Core(
		testutil.Record(testutil.HZDLocalizedMagic, testutil.HZDLocalized(testutil.ID(0), "Hello")),
	)
	l := open(t, raw)
	doc := []byte("- index: 0\n  Localized:\n    English: Hi\n")
	require.NoError(t, l.ImportDocument(func(v any) error { return yaml.Unmarshal(doc, v) }))
	got, _ := l.Resources(hzd.English)[0].Localized.Get(hzd.English)
	assert.Equal(t, "Hi", got)
}
