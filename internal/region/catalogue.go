package region

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Name identifies a region in the catalogue.
type Name string

// Built-in regions, measured against DesignResolution.
const (
	MainMenuDuel     Name = "main_menu_duel"
	CardNameDeckEdit Name = "card_name_deck_edit"
)

// DesignResolution is the resolution the built-in rectangles were measured at.
var DesignResolution = Resolution{Width: 2048, Height: 1152}

// ErrUnknownRegion is returned by Lookup for names missing from the catalogue.
var ErrUnknownRegion = errors.New("unknown region")

// Catalogue maps region names to rectangles measured at one design resolution.
//
// A Catalogue is read-only after construction and safe for concurrent use.
type Catalogue struct {
	design  Resolution
	regions map[Name]Rectangle
}

// NewCatalogue builds a catalogue, validating every rectangle.
func NewCatalogue(design Resolution, regions map[Name]Rectangle) (*Catalogue, error) {
	if design.Width <= 0 || design.Height <= 0 {
		return nil, fmt.Errorf("invalid design resolution %s", design)
	}
	c := &Catalogue{design: design, regions: make(map[Name]Rectangle, len(regions))}
	for name, r := range regions {
		if name == "" {
			return nil, errors.New("region name must not be empty")
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		c.regions[name] = r
	}
	return c, nil
}

// DefaultCatalogue returns the built-in catalogue.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(DesignResolution, map[Name]Rectangle{
		MainMenuDuel:     {Left: 140, Top: 225, Right: 390, Bottom: 300},
		CardNameDeckEdit: {Left: 59, Top: 168, Right: 424, Bottom: 201},
	})
	if err != nil {
		panic(err)
	}
	return c
}

type catalogueFile struct {
	Design  Resolution           `yaml:"design"`
	Regions map[string]Rectangle `yaml:"regions"`
}

// LoadCatalogue reads a catalogue from a YAML file.
//
// A file without a design section inherits DesignResolution.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue decodes a catalogue from YAML bytes.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	if f.Design == (Resolution{}) {
		f.Design = DesignResolution
	}
	if len(f.Regions) == 0 {
		return nil, errors.New("catalogue defines no regions")
	}
	regions := make(map[Name]Rectangle, len(f.Regions))
	for name, r := range f.Regions {
		regions[Name(name)] = r
	}
	return NewCatalogue(f.Design, regions)
}

// Design returns the resolution the catalogue rectangles were measured at.
func (c *Catalogue) Design() Resolution {
	return c.design
}

// Names returns the region names in sorted order.
func (c *Catalogue) Names() []Name {
	names := make([]Name, 0, len(c.regions))
	for name := range c.regions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Has reports whether name is in the catalogue.
func (c *Catalogue) Has(name Name) bool {
	_, ok := c.regions[name]
	return ok
}

// Lookup returns the rectangle for name scaled to the target resolution.
func (c *Catalogue) Lookup(name Name, target Resolution) (Rectangle, error) {
	r, ok := c.regions[name]
	if !ok {
		return Rectangle{}, fmt.Errorf("%w: %s", ErrUnknownRegion, name)
	}
	return r.Scale(c.design, target), nil
}

// Entry is a named rectangle scaled to a target resolution.
type Entry struct {
	Name      Name      `json:"name"`
	Rectangle Rectangle `json:"rectangle"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// Scaled returns every region scaled to target, sorted by name.
func (c *Catalogue) Scaled(target Resolution) []Entry {
	names := c.Names()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		r := c.regions[name].Scale(c.design, target)
		entries = append(entries, Entry{Name: name, Rectangle: r, Width: r.Width(), Height: r.Height()})
	}
	return entries
}
