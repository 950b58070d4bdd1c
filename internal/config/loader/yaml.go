package loader

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlLine finds the line number yaml.v3 embeds in its messages.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func parseYAML(source string, data []byte) (map[string]any, error) {
	var layer map[string]any
	if err := yaml.Unmarshal(data, &layer); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return nil, perr
	}
	if layer == nil {
		return nil, nil
	}
	normalizeYAML(layer)
	return layer, nil
}

// normalizeYAML rewrites yaml.v3 ints as int64, matching the TOML decoder,
// and drops keys with no value.
func normalizeYAML(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, item := range node {
			if item == nil {
				delete(node, k)
			} else {
				node[k] = normalizeYAML(item)
			}
		}
	case []any:
		for i := range node {
			node[i] = normalizeYAML(node[i])
		}
	case int:
		return int64(node)
	}
	return v
}
