package verity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verity "github.com/verity-go/verity"
)

func TestParsePath_RoundTrip(t *testing.T) {
	paths := []*verity.Path{
		verity.Root(),
		verity.Root().Property("name"),
		verity.Root().Property("items").Index(2).Property("name"),
		verity.Root().Property("schedule").Key("2024W15"),
		verity.Root().Property("odd name").Index(0),
		verity.Root().Key("a-b").Property("x"),
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			got, err := verity.ParsePath(p.String())
			require.NoError(t, err)
			assert.True(t, got.Equal(p), "parse(render(p)) = %s, want %s", got, p)
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, s := range []string{"", "items", "$.", "$.1bad", "$[", "$[]", "$['oops", "$.a[0", "$x"} {
		t.Run(s, func(t *testing.T) {
			_, err := verity.ParsePath(s)
			assert.Error(t, err)
		})
	}
}

func TestPath_Resolve(t *testing.T) {
	root := map[string]any{
		"items": []any{
			map[string]any{"name": "alpha"},
			map[string]any{"name": "beta"},
		},
		"schedule": map[string]any{"2024W15": "open"},
	}

	v, ok := verity.Root().Property("items").Index(1).Property("name").Resolve(root)
	require.True(t, ok)
	assert.Equal(t, "beta", v)

	v, ok = verity.Root().Property("schedule").Key("2024W15").Resolve(root)
	require.True(t, ok)
	assert.Equal(t, "open", v)

	// not found, never a panic
	_, ok = verity.Root().Property("missing").Resolve(root)
	assert.False(t, ok)
	_, ok = verity.Root().Property("items").Index(9).Resolve(root)
	assert.False(t, ok)
	_, ok = verity.Root().Property("items").Index(0).Index(0).Resolve(root)
	assert.False(t, ok)
}

func TestPath_ResolveTyped(t *testing.T) {
	type Item struct{ Name string }
	type Doc struct {
		Items    []Item
		Schedule map[int]string
	}
	doc := Doc{Items: []Item{{Name: "alpha"}}, Schedule: map[int]string{7: "open"}}

	v, ok := verity.Root().Property("Items").Index(0).Property("Name").Resolve(doc)
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	// typed key
	v, ok = verity.Root().Property("Schedule").Key(7).Resolve(doc)
	require.True(t, ok)
	assert.Equal(t, "open", v)

	// textual key from a parsed path still matches the int-keyed map
	p, err := verity.ParsePath("$.Schedule[x7]")
	require.NoError(t, err)
	_, ok = p.Resolve(doc)
	assert.False(t, ok)

	v, ok = verity.Root().Property("Schedule").Key("7").Resolve(doc)
	require.True(t, ok)
	assert.Equal(t, "open", v)

	_, ok = verity.Root().Property("Nope").Resolve(doc)
	assert.False(t, ok)
}

func TestResolveJSON(t *testing.T) {
	data := []byte(`{"items":[{"name":"alpha"},{"name":""}]}`)
	p := verity.Root().Property("items").Index(0).Property("name")

	v, ok, err := verity.ResolveJSON(data, p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok, err = verity.ResolveJSON(data, verity.Root().Property("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = verity.ResolveJSON([]byte(`{not json`), p)
	assert.Error(t, err)
}

func TestParsePath_ResolveRoundTrip(t *testing.T) {
	root := map[string]any{"items": []any{map[string]any{"name": "v"}}}
	p := verity.Root().Property("items").Index(0).Property("name")

	parsed, err := verity.ParsePath(p.String())
	require.NoError(t, err)
	got, ok := parsed.Resolve(root)
	require.True(t, ok)
	assert.Equal(t, "v", got)
}
