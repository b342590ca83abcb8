// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by flag groups that register themselves.
// [BindFlags] calls AddFlags for any struct field whose pointer
// implements it instead of reading the field's tags.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams returns a flag set bound to the tagged fields of
// params, which must point to a struct. A malformed params struct is a
// programming error and panics.
//
//	var params checkParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet {
//	        return cli.FlagsFromParams("check", &params)
//	    },
//	    Run: func(args []string) error {
//	        // params is filled in here
//	    },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers one flag per tagged field of the struct params
// points to.
//
// # Tags
//
//   - flag:"name" or flag:"name,n" gives the long name and an optional
//     one-letter shorthand. Untagged fields are ignored.
//   - desc:"text" is the help text.
//   - default:"value" is parsed as the field's type. Absent means the
//     zero value.
//
// # Field types
//
// string, bool, int, uint64, [time.Duration], []string. Embedded
// structs are walked recursively; struct fields implementing
// [FlagBinder] bind themselves.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(pointer.Elem(), flagSet)
}

// flagSpec is the parsed tag set of one field.
type flagSpec struct {
	name         string
	shorthand    string
	usage        string
	defaultValue string
}

func bindStruct(value reflect.Value, flagSet *pflag.FlagSet) error {
	for i := range value.NumField() {
		field := value.Type().Field(i)
		fieldValue := value.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if field.IsExported() && fieldValue.CanAddr() {
				if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
					binder.AddFlags(flagSet)
					continue
				}
			}
			if field.Anonymous {
				if err := bindStruct(fieldValue, flagSet); err != nil {
					return fmt.Errorf("embedded %s: %w", field.Name, err)
				}
				continue
			}
		}

		tag, ok := field.Tag.Lookup("flag")
		if !ok || tag == "" {
			continue
		}
		spec := flagSpec{
			usage:        field.Tag.Get("desc"),
			defaultValue: field.Tag.Get("default"),
		}
		spec.name, spec.shorthand, _ = strings.Cut(tag, ",")

		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s is not addressable", field.Name)
		}
		if err := spec.bind(fieldValue.Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func (s flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	var err error
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, s.name, s.shorthand, s.defaultValue, s.usage)
	case *bool:
		var value bool
		if value, err = parseDefault(s.defaultValue, strconv.ParseBool); err == nil {
			flagSet.BoolVarP(target, s.name, s.shorthand, value, s.usage)
		}
	case *int:
		var value int
		if value, err = parseDefault(s.defaultValue, strconv.Atoi); err == nil {
			flagSet.IntVarP(target, s.name, s.shorthand, value, s.usage)
		}
	case *uint64:
		var value uint64
		if value, err = parseDefault(s.defaultValue, parseUint64); err == nil {
			flagSet.Uint64VarP(target, s.name, s.shorthand, value, s.usage)
		}
	case *time.Duration:
		var value time.Duration
		if value, err = parseDefault(s.defaultValue, time.ParseDuration); err == nil {
			flagSet.DurationVarP(target, s.name, s.shorthand, value, s.usage)
		}
	case *[]string:
		var value []string
		if s.defaultValue != "" {
			value = strings.Split(s.defaultValue, ",")
		}
		flagSet.StringSliceVarP(target, s.name, s.shorthand, value, s.usage)
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, s.name)
	}
	if err != nil {
		return fmt.Errorf("default for --%s: %w", s.name, err)
	}
	return nil
}

// parseDefault returns the zero value for an empty default string.
func parseDefault[T any](text string, parse func(string) (T, error)) (T, error) {
	if text == "" {
		var zero T
		return zero, nil
	}
	return parse(text)
}

func parseUint64(text string) (uint64, error) {
	return strconv.ParseUint(text, 10, 64)
}
