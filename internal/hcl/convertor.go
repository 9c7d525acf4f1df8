package hcl

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL implementation of config.Converter.
type Converter struct{}

var _ config.Converter = (*Converter)(nil)

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArguments evaluates args and stores them in the `cty`-tagged fields of
// the struct target points to. Arguments without a matching field are an
// error, so typos in a grid surface at load time.
func (c *Converter) DecodeArguments(ctx context.Context, target any, args map[string]hcl.Expression) error {
	logger := ctxlog.FromContext(ctx)
	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	fields := make(map[string]reflect.Value, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		def := structType.Field(i)
		if !def.IsExported() {
			continue
		}
		tag := strings.Split(def.Tag.Get("cty"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		fields[tag] = structVal.Field(i)
	}

	for name, expr := range args {
		field, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported argument '%s'", name)
		}
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("argument '%s': %w", name, diags)
		}
		logger.Debug("Decoding argument.", "argument", name, "cty_type", val.Type().FriendlyName())
		if err := c.decode(val, field.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}
	return nil
}

// decode populates the Go value goVal points to from val, recursing through
// structs, slices and maps.
func (c *Converter) decode(val cty.Value, goVal any) error {
	goPtr := reflect.ValueOf(goVal).Elem()
	goType := goPtr.Type()

	if goType == reflect.TypeOf(cty.Value{}) {
		if val.IsKnown() {
			goPtr.Set(reflect.ValueOf(val))
		}
		return nil
	}
	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch goType.Kind() {
	case reflect.Interface:
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if native != nil {
			goPtr.Set(reflect.ValueOf(native))
		}
		return nil

	case reflect.Struct:
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return fmt.Errorf("type mismatch: cannot decode cty value of type %s into Go struct %s", val.Type().FriendlyName(), goType)
		}
		attrs := val.AsValueMap()
		for i := 0; i < goType.NumField(); i++ {
			def := goType.Field(i)
			tag := strings.Split(def.Tag.Get("cty"), ",")[0]
			if !def.IsExported() || tag == "" || tag == "-" {
				continue
			}
			attr, ok := attrs[tag]
			if !ok {
				continue
			}
			if err := c.decode(attr, goPtr.Field(i).Addr().Interface()); err != nil {
				return fmt.Errorf("in attribute '%s': %w", tag, err)
			}
		}
		return nil

	case reflect.Map:
		if goType.Key().Kind() != reflect.String {
			return fmt.Errorf("unsupported map key type %s", goType.Key())
		}
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return fmt.Errorf("type mismatch: cannot decode cty.%s into Go map %s", val.Type().FriendlyName(), goType)
		}
		m := reflect.MakeMap(goType)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			elem := reflect.New(goType.Elem())
			if err := c.decode(v, elem.Interface()); err != nil {
				return fmt.Errorf("in map element '%s': %w", k.AsString(), err)
			}
			m.SetMapIndex(reflect.ValueOf(k.AsString()).Convert(goType.Key()), elem.Elem())
		}
		goPtr.Set(m)
		return nil

	case reflect.Slice:
		t := val.Type()
		if !t.IsListType() && !t.IsTupleType() && !t.IsSetType() {
			return fmt.Errorf("type mismatch: cannot decode cty.%s into Go slice %s", t.FriendlyName(), goType)
		}
		s := reflect.MakeSlice(goType, val.LengthInt(), val.LengthInt())
		i := 0
		for it := val.ElementIterator(); it.Next(); i++ {
			_, v := it.Element()
			if err := c.decode(v, s.Index(i).Addr().Interface()); err != nil {
				return fmt.Errorf("in slice element %d: %w", i, err)
			}
		}
		goPtr.Set(s)
		return nil

	default:
		want, err := gocty.ImpliedType(goPtr.Interface())
		if err != nil {
			return fmt.Errorf("cannot imply cty type for %s: %w", goType, err)
		}
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("cannot convert value of type %s to %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
		}
		return gocty.FromCtyValue(converted, goVal)
	}
}

// ctyToNative converts a cty value into plain Go values: string, bool,
// int64 or float64, []any and map[string]any.
func ctyToNative(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	t := val.Type()
	switch {
	case t == cty.String:
		return val.AsString(), nil
	case t == cty.Bool:
		return val.True(), nil
	case t == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			n, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case t.IsMapType() || t.IsObjectType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			n, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty type %s", t.FriendlyName())
}
