package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestMultiFlagSet(t *testing.T) {
	f := &multiFlag{}
	require.NoError(t, f.Set("a.yaml"))
	require.NoError(t, f.Set("b.yaml"))
	assert.Equal(t, "a.yaml b.yaml", f.String())
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, f.values())
}

func TestMultiFlagNil(t *testing.T) {
	var f *multiFlag
	assert.Equal(t, "", f.String())
	assert.Nil(t, f.values())
}

func TestMultiFlagYaml(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		want []string
	}{{
		name: "list",
		doc:  "[a.yaml, b.yaml]",
		want: []string{"a.yaml", "b.yaml"},
	}, {
		name: "single value",
		doc:  "a.yaml",
		want: []string{"a.yaml"},
	}} {
		t.Run(tc.name, func(t *testing.T) {
			f := &multiFlag{}
			require.NoError(t, yaml.Unmarshal([]byte(tc.doc), f))
			assert.Equal(t, tc.want, f.values())
		})
	}
}

func TestMultiFlagYamlErr(t *testing.T) {
	m := &multiFlag{}
	err := yaml.Unmarshal([]byte(`{foo: bar}`), m)
	require.Error(t, err, "Failed to get error on wrong yaml input")
}
