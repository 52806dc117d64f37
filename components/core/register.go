package core

import "github.com/protoflo/protoflo/component"

// Register wires every bundled illustrative component into registry under
// the "core" collection.
func Register(registry *component.Registry) {
	registry.Register(component.Manifest{
		Name:        "core",
		Description: "illustrative components bundled for cmd/protoflo run",
		Version:     "1",
		Components: map[string]component.Handle{
			"Kick":     {Factory: NewKick},
			"Drop":     {Factory: NewDrop},
			"Output":   {Factory: NewOutput},
			"Add":      {Factory: NewAdd},
			"Subtract": {Factory: NewSubtract},
			"Multiply": {Factory: NewMultiply},
			"Divide":   {Factory: NewDivide},
			"Str":      {Factory: NewStr},
			"Int":      {Factory: NewInt},
			"Float":    {Factory: NewFloat},
			"Boolean":  {Factory: NewBoolean},
		},
	})
}
