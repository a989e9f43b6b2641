// Package binding exposes registry operations to callers whose arguments are
// dynamically typed cty values, such as pipeline manifests. It performs the
// argument type checks a statically typed caller gets from the compiler and
// reports violations as registry.ErrInvalidArgument before touching the
// registry.
package binding

import (
	"context"
	"fmt"
	"math/big"

	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Unregister removes name from the registry. args is either empty,
// [namespace] or [namespace, optional]. A namespace that is not a string, or
// an optional flag that is not a bool, is rejected.
func Unregister(reg *registry.Registry, name string, args ...cty.Value) error {
	namespace, optional, err := UnregisterArgs(args...)
	if err != nil {
		return err
	}
	return reg.UnregisterModule(name, namespace, optional)
}

// UnregisterArgs type-checks the arguments of Unregister without touching a
// registry. It returns the namespace (DefaultNamespace when omitted) and the
// optional flag.
func UnregisterArgs(args ...cty.Value) (namespace string, optional bool, err error) {
	if len(args) > 2 {
		return "", false, fmt.Errorf("%w: unregister takes at most 2 arguments after the name, got %d", registry.ErrInvalidArgument, len(args))
	}

	namespace = registry.DefaultNamespace
	if len(args) >= 1 {
		if namespace, err = stringArg("namespace", args[0]); err != nil {
			return "", false, err
		}
	}
	if len(args) == 2 {
		if optional, err = boolArg("optional", args[1]); err != nil {
			return "", false, err
		}
	}
	return namespace, optional, nil
}

// IsVersionCompatible checks a version given as a list or tuple of whole
// non-negative numbers. Elements of any other type are an error; a list of
// the wrong length is simply incompatible.
func IsVersionCompatible(reg *registry.Registry, v cty.Value) (bool, error) {
	parts, err := VersionComponents(v)
	if err != nil {
		return false, err
	}
	return reg.IsVersionCompatible(parts), nil
}

// VersionComponents converts a list or tuple of whole non-negative numbers.
func VersionComponents(v cty.Value) ([]uint, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: version must be a known list of numbers", registry.ErrInvalidArgument)
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("%w: version must be a list of numbers, got %s", registry.ErrInvalidArgument, ty.FriendlyName())
	}

	parts := make([]uint, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		idx, ev := it.Element()
		if ev.IsNull() || !ev.Type().Equals(cty.Number) {
			return nil, fmt.Errorf("%w: version component %s must be a number, got %s", registry.ErrInvalidArgument, idx.AsBigFloat().String(), ev.Type().FriendlyName())
		}
		bf := ev.AsBigFloat()
		if !bf.IsInt() || bf.Sign() < 0 {
			return nil, fmt.Errorf("%w: version component %s must be a whole non-negative number", registry.ErrInvalidArgument, idx.AsBigFloat().String())
		}
		n, acc := bf.Uint64()
		if acc != big.Exact || n > uint64(^uint32(0)) {
			return nil, fmt.Errorf("%w: version component %s is out of range", registry.ErrInvalidArgument, idx.AsBigFloat().String())
		}
		parts = append(parts, uint(n))
	}
	return parts, nil
}

// FindModule builds a module with a dynamically typed namespace and config.
// A null namespace means the default namespace; cfg must be an object, a
// map, or null.
func FindModule(ctx context.Context, reg *registry.Registry, name string, namespace cty.Value, instanceName string, cfg cty.Value) (module.Module, error) {
	ns := registry.DefaultNamespace
	if !namespace.IsNull() {
		s, err := stringArg("namespace", namespace)
		if err != nil {
			return nil, err
		}
		ns = s
	}

	config, err := module.ConfigFromValue(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err)
	}
	return reg.FindModule(ctx, name, ns, instanceName, config)
}

// Namespace resolves a dynamically typed namespace value, with null meaning
// the default namespace.
func Namespace(v cty.Value) (string, error) {
	if v.IsNull() {
		return registry.DefaultNamespace, nil
	}
	return stringArg("namespace", v)
}

func stringArg(what string, v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", fmt.Errorf("%w: %s must be a string, got %s", registry.ErrInvalidArgument, what, describe(v))
	}
	return v.AsString(), nil
}

func boolArg(what string, v cty.Value) (bool, error) {
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Bool) {
		return false, fmt.Errorf("%w: %s must be a bool, got %s", registry.ErrInvalidArgument, what, describe(v))
	}
	return v.True(), nil
}

func describe(v cty.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case !v.IsKnown():
		return "an unknown value"
	default:
		return v.Type().FriendlyName()
	}
}
