package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"mc-link/compat"
)

// Profile is a named set of compatibility overrides, stored as TOML.
type Profile struct {
	Name                 string              `toml:"name"`
	Description          string              `toml:"description,omitempty"`
	Ignore               []string            `toml:"ignore"`
	Rules                []compat.CompatRule `toml:"rules"`
	AutoIgnoreClientOnly bool                `toml:"auto_ignore_client_only"`
	AutoIgnoreServerOnly bool                `toml:"auto_ignore_server_only"`
}

// DefaultProfile returns the profile used when none is configured.
func DefaultProfile() Profile {
	return Profile{
		Name:                 "default",
		Description:          "Default compatibility profile",
		Ignore:               []string{},
		Rules:                []compat.CompatRule{},
		AutoIgnoreClientOnly: true,
		AutoIgnoreServerOnly: true,
	}
}

// CompatConfig converts the profile into the differ's configuration.
func (p Profile) CompatConfig() compat.CompatConfig {
	ignore := make(map[string]struct{}, len(p.Ignore))
	for _, id := range p.Ignore {
		ignore[id] = struct{}{}
	}
	return compat.CompatConfig{
		IgnoreList:           ignore,
		CustomRules:          p.Rules,
		AutoIgnoreClientOnly: p.AutoIgnoreClientOnly,
		AutoIgnoreServerOnly: p.AutoIgnoreServerOnly,
	}
}

// LoadProfile reads and validates a TOML profile. Rule problems are
// reported here so they never surface mid-scan.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var profile Profile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := validateProfile(&profile); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return profile, nil
}

// SaveProfile writes the profile as TOML, creating parent directories.
func SaveProfile(path string, profile Profile) error {
	data, err := toml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}
	return nil
}

// EnsureProfile loads the profile at path, installing the default profile
// first when the file does not exist yet.
func EnsureProfile(path string) (Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveProfile(path, DefaultProfile()); err != nil {
			return Profile{}, err
		}
	}
	return LoadProfile(path)
}

func validateProfile(profile *Profile) error {
	for i, rule := range profile.Rules {
		if rule.ModID == "" {
			return fmt.Errorf("rule %d has no mod_id", i)
		}
		switch rule.Type {
		case compat.RuleAlwaysIgnore, compat.RuleRequireBoth,
			compat.RuleClientOnly, compat.RuleServerOnly:
		default:
			return fmt.Errorf("rule for %q has unknown type %q", rule.ModID, rule.Type)
		}
	}
	return nil
}
