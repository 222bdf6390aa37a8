package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchitecture(t *testing.T) {
	for _, in := range []string{"2 3 1", "2,3,1", " 2, 3 ,1 ", "2\t3\t1"} {
		arch, err := ParseArchitecture(in)
		require.NoError(t, err, in)
		assert.Equal(t, []int{2, 3, 1}, arch, in)
	}
}

func TestParseArchitectureInvalid(t *testing.T) {
	_, err := ParseArchitecture("2 x 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layer 1")
}

func validConfig() Config {
	return Config{
		Architecture: []int{2, 3, 1},
		Activation:   "sigmoid",
		Epochs:       1000,
		LearningRate: 0.5,
		Restarts:     1,
	}
}

func TestValidateConfig(t *testing.T) {
	c := validConfig()
	require.NoError(t, ValidateConfig(&c))

	c.Epochs = 0
	require.NoError(t, ValidateConfig(&c), "zero epochs is allowed")
}

func TestValidateConfigRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"single layer":   func(c *Config) { c.Architecture = []int{2} },
		"zero width":     func(c *Config) { c.Architecture = []int{2, 0, 1} },
		"negative epoch": func(c *Config) { c.Epochs = -1 },
		"zero lr":        func(c *Config) { c.LearningRate = 0 },
		"no restarts":    func(c *Config) { c.Restarts = 0 },
		"no activation":  func(c *Config) { c.Activation = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(&c)
			require.Error(t, ValidateConfig(&c))
		})
	}
}
