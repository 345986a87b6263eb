package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionalInt records an int flag and whether it was set.
type OptionalInt struct {
	value int
	set   bool
}

func (o *OptionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *OptionalInt) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(o.value)
}

func (o *OptionalInt) Type() string {
	return "int"
}

func (o *OptionalInt) Value() (int, bool) {
	return o.value, o.set
}

// OptionalString records a string flag and whether it was set.
type OptionalString struct {
	value string
	set   bool
}

func (o *OptionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *OptionalString) String() string {
	if !o.set {
		return ""
	}
	return o.value
}

func (o *OptionalString) Type() string {
	return "string"
}

func (o *OptionalString) Value() (string, bool) {
	return o.value, o.set
}

// OptionalBool records a bool flag and whether it was set.
type OptionalBool struct {
	value bool
	set   bool
}

func (o *OptionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *OptionalBool) String() string {
	if !o.set {
		return ""
	}
	return strconv.FormatBool(o.value)
}

func (o *OptionalBool) Type() string {
	return "bool"
}

func (o *OptionalBool) IsBoolFlag() bool {
	return true
}

func (o *OptionalBool) Value() (bool, bool) {
	return o.value, o.set
}

// OptionalChoice records a string flag restricted to a fixed set of values.
type OptionalChoice struct {
	Choices []string
	value   string
	set     bool
}

func (o *OptionalChoice) Set(s string) error {
	for _, c := range o.Choices {
		if s == c {
			o.value = s
			o.set = true
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(o.Choices, "|"))
}

func (o *OptionalChoice) String() string {
	if !o.set {
		return ""
	}
	return o.value
}

func (o *OptionalChoice) Type() string {
	return strings.Join(o.Choices, "|")
}

func (o *OptionalChoice) Value() (string, bool) {
	return o.value, o.set
}
