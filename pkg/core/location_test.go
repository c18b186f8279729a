package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_IsFinite(t *testing.T) {
	assert.True(t, Position{X: 12.5, Y: 64, Z: -8}.IsFinite())
	assert.False(t, Position{X: math.NaN()}.IsFinite())
	assert.False(t, Position{Z: math.Inf(-1)}.IsFinite())
}

func TestLocation_Equal(t *testing.T) {
	a := Location{Name: "Base", Pos: Position{X: 1, Y: 2, Z: 3}, Dim: 0, Desc: StringPtr("home")}
	b := a.Clone()

	assert.True(t, a.Equal(b))
	assert.NotSame(t, a.Desc, b.Desc)

	b.Desc = nil
	assert.False(t, a.Equal(b))

	c := a.Clone()
	*c.Desc = "other"
	assert.False(t, a.Equal(c))
	assert.Equal(t, "home", a.Description(), "clone must not alias the original description")
}

func TestLocation_Description(t *testing.T) {
	assert.Equal(t, "", Location{}.Description())
	assert.Equal(t, "x", Location{Desc: StringPtr("x")}.Description())
	assert.Nil(t, StringPtr(""))
}

func TestDimensions(t *testing.T) {
	for _, dim := range []int{DimNether, DimOverworld, DimEnd} {
		assert.True(t, ValidDimension(dim))
	}
	assert.False(t, ValidDimension(2))
	assert.False(t, ValidDimension(-2))

	assert.Equal(t, "the Overworld", DimensionName(0))
	assert.Equal(t, "dimension 7", DimensionName(7))
	assert.Equal(t, "minecraft:the_nether", DimensionID(-1))
	assert.Equal(t, "7", DimensionID(7))
}

func TestPosition_MarshalJSON(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{X: 12.5, Y: 64, Z: -8}, `{"x":12.5,"y":64.0,"z":-8.0}`},
		{Position{}, `{"x":0.0,"y":0.0,"z":0.0}`},
		{Position{X: -200.125, Y: 1e6, Z: 0.001}, `{"x":-200.125,"y":1000000.0,"z":0.001}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))

		var back Position
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tt.pos, back)
	}
}

func TestPosition_MarshalJSON_NotFinite(t *testing.T) {
	_, err := json.Marshal(Position{Y: math.Inf(1)})
	assert.Error(t, err)
}
