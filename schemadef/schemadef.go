// Package schemadef builds kanon schemas from YAML or JSON definition
// documents.
//
// A document is a schema node, optionally carrying named "definitions" that
// nodes reference with {type: ref, ref: Name}:
//
//	type: object
//	unknown: strict
//	fields:
//	  name: {type: string, min: 1}
//	  age: {type: number, coerce: true, min: 0}
//	  tags: {type: array, items: string, max: 5}
//	  email: {type: string, format: email, optional: true}
//	  score:
//	    type: number
//	    checks:
//	      - {expr: "int(value) % 2 == 0", message: "must be even"}
//
// Object fields keep document order. A scalar node is shorthand for {type: x}.
package schemadef

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/reoring/kanon"
	"gopkg.in/yaml.v3"
)

// Load parses a definition document and builds its root schema. Unknown node
// options are reported through Diag, or fail the load with Options.Strict.
func Load(data []byte, opts Options) (kanon.Schema, Diag, error) {
	d := &simpleDiag{}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, d, fmt.Errorf("schemadef: parse: %w", err)
	}
	root := resolve(&doc)
	if root == nil || (root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
		return nil, d, fmt.Errorf("schemadef: empty document")
	}
	l := &loader{opts: opts, d: d, defs: map[string]*yaml.Node{}, built: map[string]kanon.Schema{}}
	if root.Kind == yaml.MappingNode {
		ps, err := pairs("$", root)
		if err != nil {
			return nil, d, fmt.Errorf("schemadef: %w", err)
		}
		for _, p := range ps {
			if p.key == "definitions" {
				if err := l.collectDefinitions(p.value); err != nil {
					return nil, d, err
				}
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(l.defs)) {
		s, err := l.build("definitions."+name, l.defs[name])
		if err != nil {
			return nil, d, err
		}
		l.built[name] = s
	}
	s, err := l.build("$", root)
	if err != nil {
		return nil, d, err
	}
	if opts.Compile {
		return kanon.Compile(s), d, nil
	}
	return s, d, nil
}

// LoadFile reads path and calls Load.
func LoadFile(path string, opts Options) (kanon.Schema, Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("schemadef: %w", err)
	}
	return Load(data, opts)
}

type loader struct {
	opts  Options
	d     *simpleDiag
	defs  map[string]*yaml.Node
	built map[string]kanon.Schema
}

func (l *loader) collectDefinitions(n *yaml.Node) error {
	ps, err := pairs("definitions", resolve(n))
	if err != nil {
		return fmt.Errorf("schemadef: %w", err)
	}
	for _, p := range ps {
		l.defs[p.key] = p.value
	}
	return nil
}
