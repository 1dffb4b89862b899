// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/z5labs/strata/accessor"
	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/update"
)

// tree applies a generic document, as produced by a parser, to a schema.
type tree[T any] struct {
	schema schema.Schema[T]
	strict bool

	// fold matches keys case-insensitively and decodes string leaves
	// weakly, for formats which only carry strings and lower case keys.
	fold bool
}

func (t tree[T]) updater(doc map[string]any) (update.Updater[T], error) {
	if t.strict {
		err := t.checkUnknown(nil, doc)
		if err != nil {
			return nil, err
		}
	}

	us := make([]update.Updater[T], 0, len(t.schema))
	for _, f := range t.schema {
		raw, found, err := t.lookup(doc, f.Path())
		if err != nil {
			return nil, InvalidFieldError{Key: f.Key(), Cause: err}
		}
		if !found {
			continue
		}
		if t.strict {
			if unknown := f.Unknown(raw); len(unknown) > 0 {
				return nil, UnknownFieldError{Key: f.Key() + accessor.Separator + unknown[0]}
			}
		}

		u, err := t.decodeField(f, raw)
		if err != nil {
			return nil, InvalidFieldError{Key: f.Key(), Cause: unwrapInvalidValue(err)}
		}
		us = append(us, u)
	}
	return update.Chain(us...), nil
}

func (t tree[T]) decodeField(f schema.Field[T], raw any) (update.Updater[T], error) {
	if s, ok := raw.(string); ok && t.fold {
		return f.Parse(s)
	}
	return f.Decode(raw)
}

func (t tree[T]) lookup(doc map[string]any, path []string) (any, bool, error) {
	var node any = doc
	for i, seg := range path {
		if node == nil {
			return nil, false, nil
		}
		m, ok := asMap(node)
		if !ok {
			return nil, false, fmt.Errorf("%s: %w", strings.Join(path[:i], accessor.Separator), ErrNotMapping)
		}
		v, ok := t.child(m, seg)
		if !ok {
			return nil, false, nil
		}
		node = v
	}
	return node, true, nil
}

func (t tree[T]) child(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if ok || !t.fold {
		return v, ok
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (t tree[T]) checkUnknown(prefix []string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		path := append(slices.Clone(prefix), k)

		var field, parent bool
		if t.fold {
			field, parent = t.schema.CoversFold(path)
		} else {
			field, parent = t.schema.Covers(path)
		}
		if field {
			continue
		}
		if !parent {
			return UnknownFieldError{Key: strings.Join(path, accessor.Separator)}
		}

		sub, ok := asMap(m[k])
		if !ok {
			continue
		}
		err := t.checkUnknown(path, sub)
		if err != nil {
			return err
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func unwrapInvalidValue(err error) error {
	var ive schema.InvalidValueError
	if errors.As(err, &ive) {
		return ive.Cause
	}
	return err
}
