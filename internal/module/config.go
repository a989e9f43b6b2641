package module

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrConfig marks a factory rejecting its configuration.
var ErrConfig = errors.New("invalid module config")

// ConfigError describes a single rejected config key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: key %q: %s", ErrConfig, e.Key, e.Reason)
}

// Unwrap lets errors.Is match ErrConfig.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// Config is the configuration a module is built from.
type Config map[string]cty.Value

// Clone returns a shallow copy. cty.Values are immutable, so the copy is
// fully independent of c.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the config keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present and not null.
func (c Config) Has(key string) bool {
	v, ok := c[key]
	return ok && !v.IsNull()
}

// lookup fetches key converted to want. A missing key returns ok=false.
func (c Config) lookup(key string, want cty.Type) (cty.Value, bool, error) {
	raw, ok := c[key]
	if !ok || raw.IsNull() {
		return cty.NilVal, false, nil
	}
	if !raw.IsWhollyKnown() {
		return cty.NilVal, false, &ConfigError{Key: key, Reason: "value is not known"}
	}
	v, err := convert.Convert(raw, want)
	if err != nil {
		return cty.NilVal, false, &ConfigError{
			Key:    key,
			Reason: fmt.Sprintf("expected %s, got %s", want.FriendlyName(), raw.Type().FriendlyName()),
		}
	}
	return v, true, nil
}

// String returns key as a string, or def when the key is absent.
func (c Config) String(key, def string) (string, error) {
	v, ok, err := c.lookup(key, cty.String)
	if err != nil || !ok {
		return def, err
	}
	return v.AsString(), nil
}

// RequireString is like String but fails when the key is absent.
func (c Config) RequireString(key string) (string, error) {
	if !c.Has(key) {
		return "", &ConfigError{Key: key, Reason: "required key is missing"}
	}
	return c.String(key, "")
}

// Bool returns key as a bool, or def when the key is absent.
func (c Config) Bool(key string, def bool) (bool, error) {
	v, ok, err := c.lookup(key, cty.Bool)
	if err != nil || !ok {
		return def, err
	}
	return v.True(), nil
}

// Number returns key as a *big.Float, or def when the key is absent.
func (c Config) Number(key string, def *big.Float) (*big.Float, error) {
	v, ok, err := c.lookup(key, cty.Number)
	if err != nil || !ok {
		return def, err
	}
	return v.AsBigFloat(), nil
}

// Int returns key as an int, or def when the key is absent. Fractional
// values are rejected.
func (c Config) Int(key string, def int) (int, error) {
	v, ok, err := c.lookup(key, cty.Number)
	if err != nil || !ok {
		return def, err
	}
	var out int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return def, &ConfigError{Key: key, Reason: "expected a whole number"}
	}
	return out, nil
}

// List returns key as a slice of values, or nil when the key is absent.
// Lists, sets and tuples are all accepted.
func (c Config) List(key string) ([]cty.Value, error) {
	raw, ok := c[key]
	if !ok || raw.IsNull() {
		return nil, nil
	}
	ty := raw.Type()
	if !ty.IsListType() && !ty.IsSetType() && !ty.IsTupleType() {
		return nil, &ConfigError{Key: key, Reason: fmt.Sprintf("expected a list, got %s", ty.FriendlyName())}
	}
	if !raw.IsWhollyKnown() {
		return nil, &ConfigError{Key: key, Reason: "value is not known"}
	}
	out := make([]cty.Value, 0, raw.LengthInt())
	for it := raw.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out, nil
}

// ConfigFromValue converts an object or map value into a Config. A null
// value yields an empty Config.
func ConfigFromValue(v cty.Value) (Config, error) {
	if v.IsNull() {
		return Config{}, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%w: config must be an object, got %s", ErrConfig, ty.FriendlyName())
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("%w: config is not known", ErrConfig)
	}
	out := make(Config, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		out[k.AsString()] = ev
	}
	return out, nil
}

// ConfigFromGo converts native Go values (strings, bools, numbers, slices,
// maps and structs with cty tags) into a Config.
func ConfigFromGo(in map[string]any) (Config, error) {
	out := make(Config, len(in))
	for k, raw := range in {
		if raw == nil {
			out[k] = cty.NullVal(cty.DynamicPseudoType)
			continue
		}
		ty, err := gocty.ImpliedType(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrConfig, k, err)
		}
		v, err := gocty.ToCtyValue(raw, ty)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrConfig, k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Value returns c as a cty object value.
func (c Config) Value() cty.Value {
	if len(c) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(c.Clone())
}
