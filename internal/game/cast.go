package game

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed content/cast.yaml
var defaultCastYAML []byte

type TribeTemplate struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Cast is the pool a season is drawn from.
type Cast struct {
	Tribes    []TribeTemplate `yaml:"tribes"`
	Survivors []Survivor      `yaml:"survivors"`
}

func ParseCast(data []byte) (Cast, error) {
	var c Cast
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Cast{}, fmt.Errorf("parse cast: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Cast{}, err
	}
	sort.Slice(c.Survivors, func(i, j int) bool { return c.Survivors[i].ID < c.Survivors[j].ID })
	return c, nil
}

// DefaultCast returns the built-in cast. It panics only if the embedded file is
// broken, which the tests catch.
func DefaultCast() Cast {
	c, err := ParseCast(defaultCastYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Cast) Validate() error {
	if len(c.Survivors) < 4 {
		return fmt.Errorf("cast needs at least 4 survivors, got %d", len(c.Survivors))
	}
	if len(c.Tribes) == 0 {
		return fmt.Errorf("cast defines no tribes")
	}
	seen := make(map[int]bool, len(c.Survivors))
	for _, s := range c.Survivors {
		if s.ID <= 0 {
			return fmt.Errorf("survivor %q has invalid id %d", s.FirstName, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate survivor id %d", s.ID)
		}
		if s.FirstName == "" {
			return fmt.Errorf("survivor %d has no first name", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func (c Cast) Survivor(id int) (Survivor, bool) {
	for _, s := range c.Survivors {
		if s.ID == id {
			return s, true
		}
	}
	return Survivor{}, false
}
