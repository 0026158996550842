package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// RunSet отправляет частичное обновление из аргументов вида key=value
func (c *Cli) RunSet(ctx context.Context, args []string) error {
	patch, err := parseAssignments(args)
	if err != nil {
		return err
	}

	if err := c.apiClient.UpdateState(ctx, patch); err != nil {
		return err
	}

	c.io.Printf("Updated %d field(s)\n", len(patch))
	return nil
}

// parseAssignments разбирает key=value. Значение читается как JSON,
// если не получилось, берется как строка.
func parseAssignments(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing assignments. Usage: tvsync set key=value [key=value...]")
	}

	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		patch[key] = value
	}

	return patch, nil
}
