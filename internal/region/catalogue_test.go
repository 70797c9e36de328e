package region

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	c := DefaultCatalogue()
	assert.Equal(t, DesignResolution, c.Design())
	assert.Equal(t, []Name{CardNameDeckEdit, MainMenuDuel}, c.Names())

	r, err := c.Lookup(CardNameDeckEdit, DesignResolution)
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Left: 59, Top: 168, Right: 424, Bottom: 201}, r)

	r, err = c.Lookup(MainMenuDuel, DesignResolution)
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Left: 140, Top: 225, Right: 390, Bottom: 300}, r)
}

func TestLookupScales(t *testing.T) {
	c := DefaultCatalogue()
	r, err := c.Lookup(MainMenuDuel, Resolution{1024, 576})
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Left: 70, Top: 113, Right: 195, Bottom: 150}, r)
}

func TestLookupUnknown(t *testing.T) {
	_, err := DefaultCatalogue().Lookup("nope", DesignResolution)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRegion))
}

func TestNewCatalogueValidates(t *testing.T) {
	_, err := NewCatalogue(Resolution{}, map[Name]Rectangle{"a": {}})
	assert.Error(t, err)

	_, err = NewCatalogue(DesignResolution, map[Name]Rectangle{"bad": {Left: 10, Right: 5}})
	assert.Error(t, err)

	_, err = NewCatalogue(DesignResolution, map[Name]Rectangle{"": {}})
	assert.Error(t, err)
}

func TestParseCatalogue(t *testing.T) {
	data := []byte(`
design:
  width: 1920
  height: 1080
regions:
  card_name_deck_edit: {left: 55, top: 158, right: 398, bottom: 189}
  duel_log: {left: 1500, top: 100, right: 1900, bottom: 900}
`)
	c, err := ParseCatalogue(data)
	require.NoError(t, err)
	assert.Equal(t, Resolution{1920, 1080}, c.Design())
	assert.True(t, c.Has("duel_log"))
	assert.False(t, c.Has(MainMenuDuel))

	r, err := c.Lookup("duel_log", Resolution{3840, 2160})
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Left: 3000, Top: 200, Right: 3800, Bottom: 1800}, r)
}

func TestParseCatalogueDefaultsDesign(t *testing.T) {
	c, err := ParseCatalogue([]byte("regions:\n  x: {left: 1, top: 1, right: 2, bottom: 2}\n"))
	require.NoError(t, err)
	assert.Equal(t, DesignResolution, c.Design())
}

func TestParseCatalogueErrors(t *testing.T) {
	_, err := ParseCatalogue([]byte("regions: ["))
	assert.Error(t, err)

	_, err = ParseCatalogue([]byte("design: {width: 10, height: 10}\n"))
	assert.Error(t, err)

	_, err = ParseCatalogue([]byte("regions:\n  x: {left: 5, top: 1, right: 2, bottom: 2}\n"))
	assert.Error(t, err)
}

func TestLoadCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  x: {left: 1, top: 1, right: 2, bottom: 2}\n"), 0o644))

	c, err := LoadCatalogue(path)
	require.NoError(t, err)
	assert.Equal(t, []Name{"x"}, c.Names())

	_, err = LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScaled(t *testing.T) {
	entries := DefaultCatalogue().Scaled(DesignResolution)
	require.Len(t, entries, 2)
	assert.Equal(t, CardNameDeckEdit, entries[0].Name)
	assert.Equal(t, 365, entries[0].Width)
	assert.Equal(t, 33, entries[0].Height)
	assert.Equal(t, MainMenuDuel, entries[1].Name)
}
