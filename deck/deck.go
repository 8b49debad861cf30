// Package deck reads YAML files declaring animated elements and their
// steps.
//
//	defaults:
//	  duration: 800
//	  easing: outCubic
//	elements:
//	  - id: title
//	    props: {x: 0, opacity: 0, fill: "#ff0000"}
//	  - id: counter
//	    value: 0
//	steps:
//	  - {target: title, to: {opacity: 1}, duration: 500}
//	  - - {target: title, to: {x: 100}}
//	    - {target: counter, to: {value: 10}, delay: 200}
//	  - {target: title, to: {fill: "#0000ff"}, interpolate: {fill: color-hcl}}
//
// Each step is either one instruction or a sequence of instructions that
// run together. Interpolator names are looked up in a lerp.Registry.
package deck

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
	"github.com/matt-g-everett/ledstep/script"
)

// ErrUnknownTarget is returned when an instruction names an element that
// is not declared.
var ErrUnknownTarget = errors.New("unknown target")

// ErrUnknownInterpolator is returned when an instruction names an
// interpolator the registry does not hold.
var ErrUnknownInterpolator = errors.New("unknown interpolator")

// Defaults override the service's animation defaults for one deck. Zero
// values leave them alone.
type Defaults struct {
	Duration float64 `yaml:"duration"`
	Easing   string  `yaml:"easing"`
}

// Element declares an animated object. An element with a value is a
// single-value box, otherwise it is a property bag.
type Element struct {
	ID    string           `yaml:"id"`
	Props map[string]Value `yaml:"props"`
	Value *Value           `yaml:"value"`
}

// Instruction moves one element towards new values. Interpolate maps
// property names to registered interpolator names.
type Instruction struct {
	Target      string            `yaml:"target"`
	To          map[string]Value  `yaml:"to"`
	Duration    *float64          `yaml:"duration"`
	Delay       *float64          `yaml:"delay"`
	Easing      string            `yaml:"easing"`
	Interpolate map[string]string `yaml:"interpolate"`
}

// Step is the group of instructions for one click.
type Step []Instruction

// UnmarshalYAML accepts a single instruction mapping or a sequence of them.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var in Instruction
		if err := node.Decode(&in); err != nil {
			return err
		}
		*s = Step{in}
		return nil
	case yaml.SequenceNode:
		var ins []Instruction
		if err := node.Decode(&ins); err != nil {
			return err
		}
		*s = ins
		return nil
	default:
		return fmt.Errorf("line %d: a step must be an instruction or a list of instructions", node.Line)
	}
}

// Deck is a parsed deck file.
type Deck struct {
	Defaults Defaults  `yaml:"defaults"`
	Elements []Element `yaml:"elements"`
	Steps    []Step    `yaml:"steps"`

	objects  map[string]anim.Object
	order    []anim.Object
	registry *lerp.Registry
}

// Load reads and parses the deck at path with the built-in interpolators.
func Load(path string) (*Deck, error) {
	return LoadWith(path, lerp.NewRegistry())
}

// LoadWith reads and parses the deck at path, resolving interpolator names
// in registry.
func LoadWith(path string, registry *lerp.Registry) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	d, err := ParseWith(data, registry)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a deck with the built-in interpolators.
func Parse(data []byte) (*Deck, error) {
	return ParseWith(data, lerp.NewRegistry())
}

// ParseWith decodes a deck, creates its objects and checks every
// instruction against them and against registry. A nil registry means the
// built-in interpolators.
func ParseWith(data []byte, registry *lerp.Registry) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = lerp.NewRegistry()
	}
	d.registry = registry

	d.objects = make(map[string]anim.Object, len(d.Elements))
	for _, e := range d.Elements {
		if e.ID == "" {
			return nil, errors.New("element without id")
		}
		if _, ok := d.objects[e.ID]; ok {
			return nil, fmt.Errorf("duplicate element %q", e.ID)
		}

		var obj anim.Object
		if e.Value != nil {
			obj = anim.NewBox(e.ID, e.Value.Value)
		} else {
			obj = anim.NewElement(e.ID, props(e.Props))
		}
		d.objects[e.ID] = obj
		d.order = append(d.order, obj)
	}

	if d.Defaults.Easing != "" {
		if _, err := easing.Lookup(d.Defaults.Easing); err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
	}

	for i, s := range d.Steps {
		for _, in := range s {
			if _, ok := d.objects[in.Target]; !ok {
				return nil, fmt.Errorf("step %d: %w: %q", i, ErrUnknownTarget, in.Target)
			}
			if in.Easing != "" {
				if _, err := easing.Lookup(in.Easing); err != nil {
					return nil, fmt.Errorf("step %d: %w", i, err)
				}
			}
			for prop, name := range in.Interpolate {
				if _, ok := registry.Lookup(name); !ok {
					return nil, fmt.Errorf("step %d: %s: %w: %q", i, prop, ErrUnknownInterpolator, name)
				}
			}
		}
	}

	return &d, nil
}

// Objects returns the declared objects in declaration order.
func (d *Deck) Objects() []anim.Object {
	return d.order
}

// Object returns the object declared as id.
func (d *Deck) Object(id string) (anim.Object, bool) {
	obj, ok := d.objects[id]
	return obj, ok
}

// Script yields one step per deck step.
func (d *Deck) Script() script.Script {
	return func(y *script.Yielder) error {
		for _, s := range d.Steps {
			group := make(script.Group, 0, len(s))
			for _, in := range s {
				group = append(group, d.instruction(in))
			}
			y.Yield(group)
		}
		return nil
	}
}

func (d *Deck) instruction(in Instruction) script.Instruction {
	var opts []script.Option
	if in.Duration != nil {
		opts = append(opts, script.Duration(*in.Duration))
	}
	if in.Delay != nil {
		opts = append(opts, script.Delay(*in.Delay))
	}
	if in.Easing != "" {
		// Checked by Parse.
		fn, _ := easing.Lookup(in.Easing)
		opts = append(opts, script.Easing(fn))
	}
	for prop, name := range in.Interpolate {
		fn, _ := d.registry.Lookup(name)
		opts = append(opts, script.Interpolate(prop, fn))
	}
	return script.To(d.objects[in.Target], props(in.To), opts...)
}

func props(values map[string]Value) anim.Props {
	p := make(anim.Props, len(values))
	for k, v := range values {
		p[k] = v.Value
	}
	return p
}

// Value is an animatable value in a deck: a number, a string or an
// {r, g, b, a} mapping.
type Value struct {
	lerp.Value
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int", "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return err
			}
			v.Value = lerp.Number(f)
		default:
			v.Value = lerp.String(node.Value)
		}
		return nil
	case yaml.MappingNode:
		var c struct {
			R, G, B float64
			A       *float64
		}
		if err := node.Decode(&c); err != nil {
			return err
		}
		if c.A != nil {
			v.Value = lerp.RGBA(c.R, c.G, c.B, *c.A)
		} else {
			v.Value = lerp.RGB(c.R, c.G, c.B)
		}
		return nil
	default:
		return fmt.Errorf("line %d: expected a number, string or colour", node.Line)
	}
}
