package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/easing"
	"github.com/matt-g-everett/ledstep/lerp"
	"github.com/matt-g-everett/ledstep/script"
)

const sample = `
defaults:
  duration: 800
  easing: outCubic
elements:
  - id: title
    props: {x: 0, opacity: 0, fill: "#ff0000", tint: {r: 1, g: 2, b: 3, a: 0.5}}
  - id: counter
    value: 0
steps:
  - {target: title, to: {opacity: 1}, duration: 500}
  - - {target: title, to: {x: 100}, easing: linear}
    - {target: counter, to: {value: 10}, delay: 200}
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if d.Defaults.Duration != 800 || d.Defaults.Easing != "outCubic" {
		t.Errorf("unexpected defaults %+v", d.Defaults)
	}
	if len(d.Steps) != 2 || len(d.Steps[0]) != 1 || len(d.Steps[1]) != 2 {
		t.Fatalf("unexpected step shape %+v", d.Steps)
	}

	objs := d.Objects()
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	title, ok := objs[0].(*anim.Element)
	if !ok {
		t.Fatalf("expected title to be an Element, got %T", objs[0])
	}
	if v, _ := title.Get("fill"); !v.Equal(lerp.String("#ff0000")) {
		t.Errorf("unexpected fill %v", v)
	}
	if v, _ := title.Get("tint"); !v.Equal(lerp.RGBA(1, 2, 3, 0.5)) {
		t.Errorf("unexpected tint %v", v)
	}
	if _, ok := objs[1].(*anim.Box); !ok {
		t.Errorf("expected counter to be a Box, got %T", objs[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"unknown target", "elements: [{id: a}]\nsteps: [{target: b, to: {x: 1}}]", ErrUnknownTarget},
		{"unknown easing", "elements: [{id: a}]\nsteps: [{target: a, to: {x: 1}, easing: wobble}]", easing.ErrUnknownPreset},
		{"unknown default easing", "defaults: {easing: wobble}", easing.ErrUnknownPreset},
		{"unknown interpolator", "elements: [{id: a}]\nsteps: [{target: a, to: {x: 1}, interpolate: {x: wobble}}]", ErrUnknownInterpolator},
		{"duplicate element", "elements: [{id: a}, {id: a}]", nil},
		{"missing id", "elements: [{props: {x: 1}}]", nil},
		{"scalar step", "steps: [3]", nil},
		{"list value", "elements: [{id: a, props: {x: [1, 2]}}]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestScript(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := script.Run(d.Script(), 1000, easing.Default())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Steps != 2 || len(res.Targets) != 2 {
		t.Fatalf("expected 2 steps over 2 targets, got %d over %d", res.Steps, len(res.Targets))
	}

	title := res.Targets[0]
	if title.Object != d.Objects()[0] {
		t.Error("expected the title element as first target")
	}
	if d := title.Steps[0].Duration; d == nil || *d != 500 {
		t.Errorf("expected explicit duration 500, got %v", d)
	}
	if !title.InitialState["opacity"].Equal(lerp.Number(0)) {
		t.Errorf("expected initial opacity 0, got %v", title.InitialState["opacity"])
	}

	counter := res.Targets[1]
	if len(counter.Steps) != 2 {
		t.Fatalf("expected a placeholder step for counter, got %d steps", len(counter.Steps))
	}
	if d := counter.Steps[1].Delay; d == nil || *d != 200 {
		t.Errorf("expected delay 200, got %v", d)
	}
	if !counter.Steps[1].Properties[anim.ValueKey].Equal(lerp.Number(10)) {
		t.Errorf("unexpected counter step %+v", counter.Steps[1].Properties)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := d.Object("counter"); !ok {
		t.Error("expected counter element")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing deck")
	}
}

func TestInterpolate(t *testing.T) {
	data := []byte(`
elements:
  - id: lamp
    props: {fill: "#ff0000", x: 0}
steps:
  - {target: lamp, to: {fill: "#0000ff", x: 10}, interpolate: {fill: color-hcl, x: stepped}}
`)

	registry := lerp.NewRegistry()
	if _, err := Parse(data); !errors.Is(err, ErrUnknownInterpolator) {
		t.Fatalf("expected ErrUnknownInterpolator without the custom entry, got %v", err)
	}

	stepped := func(start, end lerp.Value, p float64) lerp.Value { return start }
	if err := registry.Register("stepped", stepped); err != nil {
		t.Fatal(err)
	}
	d, err := ParseWith(data, registry)
	if err != nil {
		t.Fatalf("ParseWith failed: %v", err)
	}

	res, err := script.Run(d.Script(), 1000, easing.Presets["linear"])
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	anims := anim.PrepareForward(res.Targets, 0, 1000, easing.Presets["linear"])
	updates := anim.ProcessFrame(anims, 500, 0)
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}

	hcl, _ := registry.Lookup("color-hcl")
	if got, want := updates[0].Values["fill"], hcl(lerp.String("#ff0000"), lerp.String("#0000ff"), 0.5); !got.Equal(want) {
		t.Errorf("fill = %v, want %v", got, want)
	}
	if got := updates[0].Values["x"]; !got.Equal(lerp.Number(0)) {
		t.Errorf("expected the custom interpolator to hold x at 0, got %v", got)
	}
}
