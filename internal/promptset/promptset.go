// Package promptset defines named sets of judging prompts grouped into
// ordered categories. Comparison outcomes are always scoped to one promptset,
// and the analyzer uses a promptset's category list to spot coverage gaps.
package promptset

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// DefaultName is the promptset used when none is specified.
const DefaultName = "basic1"

//go:embed basic1.yaml
var basic1YAML []byte

// Category is one named group of prompts.
type Category struct {
	Name    string   `yaml:"name"`
	Prompts []string `yaml:"prompts"`
}

// Promptset is a named, ordered collection of prompt categories.
type Promptset struct {
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

// Selection narrows a promptset to specific categories and a per-category
// prompt budget. It is decoded loosely from configuration maps.
type Selection struct {
	Categories     []string `mapstructure:"categories"`
	MaxPerCategory int      `mapstructure:"max_per_category"`
}

// SelectionFromParams decodes a Selection from an untyped parameter map, for
// example one parsed out of a YAML config block.
func SelectionFromParams(params map[string]any) (Selection, error) {
	var sel Selection
	if err := mapstructure.Decode(params, &sel); err != nil {
		return Selection{}, fmt.Errorf("decoding prompt selection: %w", err)
	}
	return sel, nil
}

// Default returns the embedded basic1 promptset.
func Default() *Promptset {
	ps, err := parse(basic1YAML)
	if err != nil {
		panic(fmt.Sprintf("embedded promptset is invalid: %s", err))
	}
	return ps
}

// Load reads the promptset <name>.yaml from dir. A missing file for
// DefaultName falls back to the embedded copy; any other missing name is an
// error.
func Load(dir, name string) (*Promptset, error) {
	data, err := os.ReadFile(filepath.Join(dir, name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) && name == DefaultName {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading promptset %q: %w", name, err)
	}

	ps, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing promptset %q: %w", name, err)
	}
	if ps.Name != name {
		return nil, fmt.Errorf("promptset file %s.yaml declares name %q", name, ps.Name)
	}
	return ps, nil
}

func parse(data []byte) (*Promptset, error) {
	var ps Promptset
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return &ps, nil
}

// Validate checks structural requirements: a name, at least one category,
// unique non-empty category names, and at least one prompt per category.
func (p *Promptset) Validate() error {
	if p.Name == "" {
		return errors.New("promptset has no name")
	}
	if len(p.Categories) == 0 {
		return fmt.Errorf("promptset %q has no categories", p.Name)
	}
	seen := map[string]bool{}
	for _, cat := range p.Categories {
		if cat.Name == "" {
			return fmt.Errorf("promptset %q has a category with no name", p.Name)
		}
		if seen[cat.Name] {
			return fmt.Errorf("promptset %q repeats category %q", p.Name, cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Prompts) == 0 {
			return fmt.Errorf("category %q has no prompts", cat.Name)
		}
	}
	return nil
}

// CategoryNames returns the category names in definition order.
func (p *Promptset) CategoryNames() []string {
	names := make([]string, len(p.Categories))
	for i, cat := range p.Categories {
		names[i] = cat.Name
	}
	return names
}

// Prompts returns the prompts for one category, or nil if the promptset has
// no such category.
func (p *Promptset) Prompts(category string) []string {
	for _, cat := range p.Categories {
		if cat.Name == category {
			return cat.Prompts
		}
	}
	return nil
}

// SelectedCategories returns the selection's categories that exist in the
// promptset, in definition order. An empty selection keeps every category.
func (p *Promptset) SelectedCategories(sel Selection) []string {
	if len(sel.Categories) == 0 {
		return p.CategoryNames()
	}
	wanted := map[string]bool{}
	for _, name := range sel.Categories {
		wanted[name] = true
	}
	var out []string
	for _, cat := range p.Categories {
		if wanted[cat.Name] {
			out = append(out, cat.Name)
		}
	}
	return out
}

// Select applies a Selection: the chosen categories (all of them when the
// list is empty, skipping unknown names) with at most MaxPerCategory prompts
// each. A non-positive budget keeps every prompt. Sampling uses a
// non-deterministic source; SelectWithSeed pins it for tests.
func (p *Promptset) Select(sel Selection) map[string][]string {
	return p.SelectWithSeed(sel, -1)
}

// SelectWithSeed is like Select but accepts a seed for reproducibility. A
// negative seed uses a non-deterministic source.
func (p *Promptset) SelectWithSeed(sel Selection, seed int64) map[string][]string {
	rng := rand.New(rand.NewSource(seed))
	if seed < 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	categories := sel.Categories
	if len(categories) == 0 {
		categories = p.CategoryNames()
	}

	out := map[string][]string{}
	for _, name := range categories {
		prompts := p.Prompts(name)
		if prompts == nil {
			continue
		}
		if sel.MaxPerCategory > 0 && sel.MaxPerCategory < len(prompts) {
			sampled := make([]string, len(prompts))
			copy(sampled, prompts)
			rng.Shuffle(len(sampled), func(i, j int) {
				sampled[i], sampled[j] = sampled[j], sampled[i]
			})
			prompts = sampled[:sel.MaxPerCategory]
		}
		out[name] = prompts
	}
	return out
}
