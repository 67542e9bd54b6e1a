// Package checklist holds the static QA checklist catalog. Selected tags
// resolve to checklist items that are fed verbatim into the prompt context.
package checklist

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entry is one catalog entry: a feature tag with its checklist items.
type Entry struct {
	Tag   string   `yaml:"tag"`
	Label string   `yaml:"label"`
	Items []string `yaml:"items"`
}

type catalog struct {
	Tags []Entry `yaml:"tags"`
}

// The catalog is a compile-time asset; an invalid one is a build defect,
// not a runtime condition, so it panics at init like template.Must.
var loaded = mustLoad()

func mustLoad() catalog {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		panic(fmt.Sprintf("checklist: parse embedded catalog: %v", err))
	}
	for _, e := range c.Tags {
		if e.Tag == "" || e.Label == "" || len(e.Items) == 0 {
			panic(fmt.Sprintf("checklist: embedded catalog entry %q is incomplete", e.Tag))
		}
	}
	return c
}

// Entries returns the full catalog in declaration order.
func Entries() []Entry {
	return loaded.Tags
}

// Tags returns all known tag identifiers in catalog order.
func Tags() []string {
	tags := make([]string, 0, len(loaded.Tags))
	for _, e := range loaded.Tags {
		tags = append(tags, e.Tag)
	}
	return tags
}

// ItemsFor returns the checklist items for the selected tags, prefixed with
// the tag label, in catalog order. Unknown tags are ignored.
func ItemsFor(tags []string) []string {
	selected := make(map[string]bool, len(tags))
	for _, t := range tags {
		selected[t] = true
	}

	items := []string{}
	for _, e := range loaded.Tags {
		if !selected[e.Tag] {
			continue
		}
		for _, item := range e.Items {
			items = append(items, fmt.Sprintf("%s: %s", e.Label, item))
		}
	}
	return items
}
