package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// opSpec is one parsed entry of PreProcess.transform_ops: an operator name
// and its parameter mapping. Order in the config is execution order.
type opSpec struct {
	name   string
	params map[string]any
}

// parseConfig extracts the ordered transform list from a YAML document.
func parseConfig(data []byte) ([]opSpec, error) {
	var doc struct {
		PreProcess struct {
			TransformOps []map[string]yaml.Node `yaml:"transform_ops"`
		} `yaml:"PreProcess"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	if doc.PreProcess.TransformOps == nil {
		return nil, fmt.Errorf("%w: missing PreProcess.transform_ops", ErrConfigSchema)
	}

	specs := make([]opSpec, 0, len(doc.PreProcess.TransformOps))
	for i, entry := range doc.PreProcess.TransformOps {
		if len(entry) != 1 {
			return nil, fmt.Errorf("%w: transform_ops[%d] must be a single-key mapping, got %d keys",
				ErrConfigSchema, i, len(entry))
		}
		for name, node := range entry {
			var params map[string]any
			if node.Kind != 0 && node.Tag != "!!null" {
				if err := node.Decode(&params); err != nil {
					return nil, fmt.Errorf("%w: transform_ops[%d] %s: parameters must be a mapping: %v",
						ErrConfigSchema, i, name, err)
				}
			}
			specs = append(specs, opSpec{name: name, params: params})
		}
	}
	return specs, nil
}

// intParam extracts a required integer parameter.
func intParam(params map[string]any, key, op string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrConfigSchema, op, key)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s parameter %q must be an integer, got %T", ErrConfigSchema, op, key, v)
	}
	return n, nil
}

// floatParam extracts a required float parameter. YAML integers are accepted.
func floatParam(params map[string]any, key, op string) (float32, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrConfigSchema, op, key)
	}
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("%w: %s parameter %q must be a number, got %T", ErrConfigSchema, op, key, v)
	}
}

// floatListParam extracts a required list-of-floats parameter.
func floatListParam(params map[string]any, key, op string) ([]float32, error) {
	v, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s requires %q", ErrConfigSchema, op, key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s parameter %q must be a list, got %T", ErrConfigSchema, op, key, v)
	}
	out := make([]float32, len(list))
	for i, item := range list {
		switch n := item.(type) {
		case float64:
			out[i] = float32(n)
		case int:
			out[i] = float32(n)
		default:
			return nil, fmt.Errorf("%w: %s parameter %q[%d] must be a number, got %T",
				ErrConfigSchema, op, key, i, item)
		}
	}
	return out, nil
}
