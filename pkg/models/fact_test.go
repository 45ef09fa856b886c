package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFact_ZeroValueIsUnavailable(t *testing.T) {
	var f Fact[int]
	_, ok := f.Get()
	assert.False(t, ok)
	assert.Equal(t, StateUnavailable, f.State())
	assert.Equal(t, UnavailableToken, f.String())
}

func TestFact_String(t *testing.T) {
	assert.Equal(t, "12", Present(12).String())
	assert.Equal(t, "42.5", Present(42.49).String())
	assert.Equal(t, "true", Present(true).String())
	assert.Equal(t, "cron ssh", Present([]string{"cron", "ssh"}).String())
	assert.Equal(t, "none", Present([]string{}).String())
	assert.Equal(t, NotApplicableToken, NotApplicable[string]().String())
	assert.Equal(t, UnavailableToken, Present("").String())
}

func TestFact_MarshalJSON(t *testing.T) {
	doc := struct {
		A Fact[int]      `json:"a"`
		B Fact[int]      `json:"b"`
		C Fact[bool]     `json:"c"`
		D Fact[[]string] `json:"d"`
		E Fact[[]string] `json:"e"`
	}{
		A: Present(3),
		B: Unavailable[int](),
		C: Present(false),
		D: Present[[]string](nil),
		E: NotApplicable[[]string](),
	}

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":"unavailable","c":false,"d":[],"e":"not_applicable"}`, string(out))
}

func TestFact_MarshalYAML(t *testing.T) {
	doc := struct {
		A Fact[int] `yaml:"a"`
		B Fact[int] `yaml:"b"`
	}{
		A: Present(7),
		B: Unavailable[int](),
	}

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "a: 7\nb: unavailable\n", string(out))
}

func TestDiskUsage_Percent(t *testing.T) {
	pct, ok := DiskUsage{UsedPct: "86%"}.Percent()
	assert.True(t, ok)
	assert.Equal(t, 86, pct)

	pct, ok = DiskUsage{UsedPct: " 7% "}.Percent()
	assert.True(t, ok)
	assert.Equal(t, 7, pct)

	_, ok = DiskUsage{UsedPct: "-"}.Percent()
	assert.False(t, ok)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json":       FormatStructured,
		"structured": FormatStructured,
		"markdown":   FormatTabular,
		"TABULAR":    FormatTabular,
		"text":       FormatPlain,
		"":           FormatCombined,
		"yaml":       FormatYAML,
	}
	for in, want := range cases {
		got, ok := ParseFormat(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseFormat("xml")
	assert.False(t, ok)
	assert.Equal(t, FormatPlain, got)
}
