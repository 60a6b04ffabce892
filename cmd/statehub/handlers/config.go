package handlers

import (
	"context"
	"strings"
)

// SaveConfig writes the effective configuration, including flag and
// environment overrides, to the config file.
func SaveConfig(_ context.Context, g Globals) error {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	path, err := saveConfig(s.home, s.cfg)
	if err != nil {
		return err
	}
	s.out.Message("Configuration saved to %s", path)
	return nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
