package wegue

import (
	"encoding/json"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type displayOptions struct {
	Visible Optional[bool]    `json:"visible,omitzero" yaml:"visible"`
	Opacity Optional[float64] `json:"opacity,omitzero" yaml:"opacity"`
	Extent  Optional[Extent]  `json:"extent,omitzero" yaml:"extent"`
}

func Test_Optional_JSON(t *testing.T) {
	var opts displayOptions
	require.NoError(t, json.Unmarshal([]byte(`{"visible":false,"opacity":null}`), &opts))

	visible, ok := opts.Visible.Get()
	assert.True(t, ok)
	assert.False(t, visible)
	assert.False(t, opts.Opacity.IsSet())
	assert.False(t, opts.Extent.IsSet())
	assert.Equal(t, 1.0, opts.Opacity.Or(1))

	data, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"visible":false}`, string(data))
}

func Test_Optional_YAML(t *testing.T) {
	var opts displayOptions
	require.NoError(t, yaml.Unmarshal([]byte("visible: false\nopacity: 0\nextent: [1, 2, 3, 4]\n"), &opts))

	assert.Equal(t, Some(false), opts.Visible)
	assert.Equal(t, Some(0.0), opts.Opacity)
	assert.Equal(t, Some(Extent{1, 2, 3, 4}), opts.Extent)

	opts = displayOptions{}
	require.NoError(t, yaml.Unmarshal([]byte("visible: true\n"), &opts))
	assert.True(t, opts.Visible.IsSet())
	assert.False(t, opts.Opacity.IsSet())
}

func Test_Optional_Schema(t *testing.T) {
	r := huma.NewMapRegistry("#/components/schemas/", huma.DefaultSchemaNamer)

	assert.Equal(t, huma.TypeBoolean, Optional[bool]{}.Schema(r).Type)
	assert.Equal(t, huma.TypeNumber, Optional[float64]{}.Schema(r).Type)
}
