package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// yamlFlag sets a pointer field from inline YAML passed on the command
// line, or from the config file. Unknown keys are rejected.
type yamlFlag[T any] struct {
	Ptr   **T
	value string
}

func newYamlFlag[T any](ptr **T) *yamlFlag[T] {
	return &yamlFlag[T]{Ptr: ptr}
}

func (yf *yamlFlag[T]) Set(value string) error {
	var v T
	if err := yaml.UnmarshalStrict([]byte(value), &v); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}

	*yf.Ptr = &v
	yf.value = value
	return nil
}

func (yf *yamlFlag[T]) UnmarshalYAML(unmarshal func(any) error) error {
	var v T
	if err := unmarshal(&v); err != nil {
		return err
	}

	*yf.Ptr = &v
	return nil
}

func (yf *yamlFlag[T]) String() string {
	if yf == nil {
		return ""
	}

	return yf.value
}
