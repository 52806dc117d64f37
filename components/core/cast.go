package core

import (
	"fmt"
	"strconv"

	"github.com/protoflo/protoflo/component"
)

// NewStr constructs a component converting every input to its string form.
func NewStr() component.Instance {
	return component.NewMapComponent("converts its input to a string", func(data any) (any, error) {
		return fmt.Sprintf("%v", data), nil
	})
}

// NewInt constructs a component parsing every input as an integer.
func NewInt() component.Instance {
	return component.NewMapComponent("converts its input to an integer", func(data any) (any, error) {
		switch v := data.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("core: %q is not an integer", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("core: %T cannot be converted to an integer", data)
		}
	})
}

// NewFloat constructs a component parsing every input as a float.
func NewFloat() component.Instance {
	return component.NewMapComponent("converts its input to a float", func(data any) (any, error) {
		switch v := data.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("core: %q is not a float", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("core: %T cannot be converted to a float", data)
		}
	})
}

// NewBoolean constructs a component converting every input to a bool by
// the usual truthiness rules: zero float64 or int values, empty strings,
// "false" and nil are false; everything else, other numeric types
// included, is true.
func NewBoolean() component.Instance {
	return component.NewMapComponent("converts its input to a boolean", func(data any) (any, error) {
		switch v := data.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			return v != "" && v != "false", nil
		case float64:
			return v != 0, nil
		case int:
			return v != 0, nil
		default:
			return true, nil
		}
	})
}
