package main

import (
	"fmt"
	"strconv"
	"strings"

	"playbook/internal/skill"
)

// parseParams turns repeated key=value flags into a parameter map.
// Values that parse as integers become ints so bounded domains match.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad param %q, want key=value", pair)
		}
		if n, err := strconv.Atoi(value); err == nil {
			params[key] = n
		} else {
			params[key] = value
		}
	}
	return params, nil
}

// resolveSkill loads a built-in skill, listing the valid names on a miss.
func resolveSkill(name string) (*skill.Skill, error) {
	s, err := skill.Lookup(name)
	if err == nil {
		return s, nil
	}
	all, listErr := skill.All()
	if listErr != nil {
		return nil, err
	}
	names := make([]string, len(all))
	for i, sk := range all {
		names[i] = sk.Name
	}
	return nil, fmt.Errorf("%w (have: %s)", err, strings.Join(names, ", "))
}
