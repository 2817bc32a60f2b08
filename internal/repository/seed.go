package repository

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns a fresh copy of the built-in nine-activity roster.
func DefaultSeed() model.Roster {
	roster, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return roster
}

// LoadSeed reads a roster from a YAML file. An empty path yields DefaultSeed.
func LoadSeed(path string) (model.Roster, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	roster, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return roster, nil
}

// ParseSeed decodes and validates a YAML roster document.
func ParseSeed(data []byte) (model.Roster, error) {
	var roster model.Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	names := make(map[string]struct{}, len(roster))
	for i, na := range roster {
		na.Name = strings.TrimSpace(na.Name)
		if na.Name == "" {
			return nil, fmt.Errorf("activity %d: name is required", i)
		}
		if _, dup := names[na.Name]; dup {
			return nil, fmt.Errorf("activity %q: duplicate name", na.Name)
		}
		names[na.Name] = struct{}{}
		if na.Activity.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive", na.Name)
		}

		seen := make(map[string]struct{}, len(na.Activity.Participants))
		for _, email := range na.Activity.Participants {
			if _, dup := seen[email]; dup {
				return nil, fmt.Errorf("activity %q: participant %s listed twice", na.Name, email)
			}
			seen[email] = struct{}{}
		}
		if na.Activity.Participants == nil {
			na.Activity.Participants = []string{}
		}
		roster[i] = na
	}
	return roster, nil
}
