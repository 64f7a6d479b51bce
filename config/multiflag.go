package config

import (
	"strings"
)

// multiFlag collects the values of a repeated flag. In YAML, it accepts
// either a single value or a list.
type multiFlag []string

func (f *multiFlag) String() string {
	if f == nil {
		return ""
	}

	return strings.Join(*f, " ")
}

func (f *multiFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func (f *multiFlag) values() []string {
	if f == nil {
		return nil
	}

	return []string(*f)
}

func (f *multiFlag) UnmarshalYAML(unmarshal func(any) error) error {
	var values []string
	if err := unmarshal(&values); err == nil {
		*f = values
		return nil
	}

	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}

	*f = multiFlag{value}
	return nil
}
