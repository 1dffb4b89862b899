// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/update"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder decodes YAML documents. Since YAML is a superset of JSON it
// also decodes JSON documents.
type YAMLDecoder[T any] struct {
	tree tree[T]
}

// YAML returns a [Decoder] of YAML documents for the fields of s.
func YAML[T any](s schema.Schema[T], opts ...Option) *YAMLDecoder[T] {
	do := newDecodeOptions(opts)
	return &YAMLDecoder[T]{
		tree: tree[T]{schema: s, strict: do.strict},
	}
}

// Decode implements the [Decoder] interface. An empty or null document
// decodes to the identity updater.
func (d *YAMLDecoder[T]) Decode(b []byte) (update.Updater[T], error) {
	var doc any
	err := yaml.Unmarshal(b, &doc)
	if err != nil {
		return nil, MalformedError{Format: "yaml", Cause: err}
	}
	if doc == nil {
		return update.Identity[T](), nil
	}

	m, ok := asMap(doc)
	if !ok {
		return nil, MalformedError{Format: "yaml", Cause: ErrNotMapping}
	}
	return d.tree.updater(m)
}
