package source

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/modulegrid/internal/module"
	"github.com/specialistvlad/modulegrid/internal/testutil"
	"github.com/specialistvlad/modulegrid/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func build(t *testing.T, cfg module.Config) (*Source, error) {
	t.Helper()
	reg := testutil.NewRegistry(t, &Module{})
	mod, err := reg.FindModule(context.Background(), Name, modules.Namespace, "reader", cfg)
	if err != nil {
		return nil, err
	}
	s, ok := mod.(*Source)
	require.True(t, ok)
	return s, nil
}

func TestSource_Values(t *testing.T) {
	s, err := build(t, module.Config{
		"values": cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)}),
		"repeat": cty.NumberIntVal(2),
	})
	require.NoError(t, err)

	got := s.Values()
	require.Len(t, got, 4)
	assert.True(t, got[2].RawEquals(cty.StringVal("a")))
	assert.True(t, got[3].RawEquals(cty.NumberIntVal(1)))
}

func TestSource_Env(t *testing.T) {
	t.Setenv("MODULEGRID_SRC_B", "2")
	t.Setenv("MODULEGRID_SRC_A", "1")

	s, err := build(t, module.Config{"env_prefix": cty.StringVal("MODULEGRID_SRC_")})
	require.NoError(t, err)

	got := s.Values()
	require.Len(t, got, 2)
	assert.Equal(t, "MODULEGRID_SRC_A", got[0].GetAttr("name").AsString())
	assert.Equal(t, "2", got[1].GetAttr("value").AsString())
}

func TestSource_Emit(t *testing.T) {
	s, err := build(t, module.Config{
		"values": cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
	})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, s.Emit(context.Background(), func(v cty.Value) error {
		seen = append(seen, v.AsString())
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, seen)

	stop := errors.New("stop")
	err = s.Emit(context.Background(), func(cty.Value) error { return stop })
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Emit(ctx, func(cty.Value) error { return nil }), context.Canceled)
}

func TestSource_RejectsBadConfig(t *testing.T) {
	_, err := build(t, module.Config{"repeat": cty.NumberIntVal(-2)})
	assert.ErrorIs(t, err, module.ErrConfig)

	_, err = build(t, module.Config{"values": cty.StringVal("not a list")})
	assert.ErrorIs(t, err, module.ErrConfig)
}

func TestSource_RejectsOversizedRepeat(t *testing.T) {
	two := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})

	_, err := build(t, module.Config{"values": two, "repeat": cty.NumberIntVal(1 << 62)})
	require.Error(t, err)
	assert.ErrorIs(t, err, module.ErrConfig)
	var cfgErr *module.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "repeat", cfgErr.Key)

	_, err = build(t, module.Config{"values": two, "repeat": cty.NumberIntVal(MaxValues/2 + 1)})
	assert.ErrorIs(t, err, module.ErrConfig)

	s, err := build(t, module.Config{"values": two, "repeat": cty.NumberIntVal(MaxValues / 2)})
	require.NoError(t, err)
	assert.Len(t, s.Values(), MaxValues)

	// Nothing to repeat, nothing to cap.
	s, err = build(t, module.Config{"repeat": cty.NumberIntVal(1 << 62)})
	require.NoError(t, err)
	assert.Empty(t, s.Values())
	assert.NoError(t, s.Emit(context.Background(), func(cty.Value) error { return errors.New("no values expected") }))
}
