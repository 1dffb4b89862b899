// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"bytes"
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/z5labs/strata/schema"

	"gopkg.in/yaml.v3"
)

// Mask replaces the value of secret fields in encoded documents.
const Mask = "******"

// EncodeOption configures the [YAMLEncoder].
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	maskSecrets bool
	indent      int
}

// MaskSecrets replaces the values of fields marked with [schema.Secret] by [Mask].
func MaskSecrets() EncodeOption {
	return func(eo *encodeOptions) {
		eo.maskSecrets = true
	}
}

// Indent sets the number of spaces used for nested mappings. The default is 2.
func Indent(n int) EncodeOption {
	return func(eo *encodeOptions) {
		eo.indent = n
	}
}

// YAMLEncoder renders the fields of a schema as a YAML document which
// decodes back to the same values with [YAML].
type YAMLEncoder[T any] struct {
	schema schema.Schema[T]
	opts   encodeOptions
}

// NewYAMLEncoder returns an [Encoder] producing YAML documents.
func NewYAMLEncoder[T any](s schema.Schema[T], opts ...EncodeOption) *YAMLEncoder[T] {
	eo := encodeOptions{indent: 2}
	for _, opt := range opts {
		opt(&eo)
	}
	return &YAMLEncoder[T]{schema: s, opts: eo}
}

// Encode implements the [Encoder] interface. Keys appear in schema order.
func (e *YAMLEncoder[T]) Encode(cfg T) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range e.schema {
		var v any = plain(reflect.ValueOf(f.Value(cfg)))
		if f.Secret() && e.opts.maskSecrets {
			v = Mask
		}

		var leaf yaml.Node
		err := leaf.Encode(v)
		if err != nil {
			return nil, InvalidFieldError{Key: f.Key(), Cause: err}
		}
		setPath(root, f.Path(), &leaf)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(e.opts.indent)
	err := enc.Encode(root)
	if err != nil {
		return nil, err
	}
	err = enc.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setPath(node *yaml.Node, path []string, leaf *yaml.Node) {
	for i, seg := range path {
		last := i == len(path)-1

		var child *yaml.Node
		for j := 0; j+1 < len(node.Content); j += 2 {
			if node.Content[j].Value == seg {
				child = node.Content[j+1]
				break
			}
		}
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			if last {
				child = leaf
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: seg},
				child,
			)
		}
		if last {
			return
		}
		node = child
	}
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// plain converts v into maps, slices and scalars which decode back into
// the same type through the field decoders.
func plain(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	if s, ok := marshalText(v); ok {
		return s
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return plain(v.Elem())
	case reflect.Struct:
		m := make(map[string]any, v.NumField())
		t := v.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			m[fieldName(sf)] = plain(v.Field(i))
		}
		return m
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m[fmt.Sprint(plain(iter.Key()))] = plain(iter.Value())
		}
		return m
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = plain(v.Index(i))
		}
		return out
	default:
		return v.Interface()
	}
}

func marshalText(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return "", false
	}
	if !v.Type().Implements(textMarshalerType) {
		if !reflect.PointerTo(v.Type()).Implements(textMarshalerType) {
			return "", false
		}
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return "", false
	}
	return string(b), true
}

func fieldName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup(schema.TagName)
	if !ok {
		return sf.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}
