package compat

// RuleType enumerates the custom compatibility rule actions.
type RuleType string

const (
	// RuleAlwaysIgnore skips the mod entirely on both sides.
	RuleAlwaysIgnore RuleType = "always_ignore"
	// RuleRequireBoth forces normal presence/version checking.
	RuleRequireBoth RuleType = "require_both"
	// RuleClientOnly allows the mod on the client without a server copy.
	RuleClientOnly RuleType = "client_only"
	// RuleServerOnly allows the mod on the server without a client copy.
	RuleServerOnly RuleType = "server_only"
)

// CompatRule is a user-defined override for one mod id.
type CompatRule struct {
	ModID  string   `toml:"mod_id"`
	Type   RuleType `toml:"type"`
	Reason string   `toml:"reason"`
}

// CompatConfig controls how the compatibility check classifies mods.
type CompatConfig struct {
	// IgnoreList holds mod ids that are always skipped.
	IgnoreList map[string]struct{}
	// CustomRules are applied in order; the first rule matching a mod id wins.
	CustomRules []CompatRule
	// AutoIgnoreClientOnly skips client-side mods missing from the server.
	AutoIgnoreClientOnly bool
	// AutoIgnoreServerOnly skips server-side mods missing from the client.
	AutoIgnoreServerOnly bool
}

// DefaultCompatConfig returns a config with side-affinity auto-ignoring on.
func DefaultCompatConfig() CompatConfig {
	return CompatConfig{
		IgnoreList:           make(map[string]struct{}),
		AutoIgnoreClientOnly: true,
		AutoIgnoreServerOnly: true,
	}
}

// ruleFor returns the first custom rule matching the given mod id.
func (c *CompatConfig) ruleFor(modID string) (CompatRule, bool) {
	for _, rule := range c.CustomRules {
		if rule.ModID == modID {
			return rule, true
		}
	}
	return CompatRule{}, false
}

func (c *CompatConfig) ignored(modID string) bool {
	_, ok := c.IgnoreList[modID]
	return ok
}

// VersionMismatch describes a mod present on both sides with different
// version strings.
type VersionMismatch struct {
	ModID         string `json:"mod_id"`
	ModName       string `json:"mod_name"`
	ClientVersion string `json:"client_version"`
	ServerVersion string `json:"server_version"`
}

// CompatResult is the outcome of comparing a client and a server inventory.
type CompatResult struct {
	// MissingOnServer lists client mods the server lacks.
	MissingOnServer []ModIdentity `json:"missing_on_server"`
	// MissingOnClient lists server mods the client lacks.
	MissingOnClient []ModIdentity `json:"missing_on_client"`
	// VersionMismatches lists mods installed on both sides at different versions.
	VersionMismatches []VersionMismatch `json:"version_mismatches"`
	// IgnoredMods lists mod ids that rules or side affinity skipped.
	IgnoredMods []string `json:"ignored_mods"`
	// IsCompatible is true only when all three finding lists are empty.
	IsCompatible bool `json:"is_compatible"`
}

// CheckCompatibility compares two mod inventories under the given config.
//
// The client list is processed first; the server pass then only considers
// ids the client pass did not already resolve. The result is deterministic
// for identical inputs, and the verdict does not depend on list order.
func CheckCompatibility(clientMods, serverMods []ModIdentity, config CompatConfig) CompatResult {
	result := CompatResult{
		MissingOnServer:   []ModIdentity{},
		MissingOnClient:   []ModIdentity{},
		VersionMismatches: []VersionMismatch{},
		IgnoredMods:       []string{},
		IsCompatible:      true,
	}

	clientByID := make(map[string]ModIdentity, len(clientMods))
	for _, m := range clientMods {
		clientByID[m.ID] = m
	}
	serverByID := make(map[string]ModIdentity, len(serverMods))
	for _, m := range serverMods {
		serverByID[m.ID] = m
	}

	for _, clientMod := range clientMods {
		if config.ignored(clientMod.ID) {
			result.IgnoredMods = append(result.IgnoredMods, clientMod.ID)
			continue
		}

		if rule, ok := config.ruleFor(clientMod.ID); ok {
			switch rule.Type {
			case RuleAlwaysIgnore, RuleClientOnly:
				result.IgnoredMods = append(result.IgnoredMods, clientMod.ID)
				continue
			case RuleServerOnly:
				result.MissingOnServer = append(result.MissingOnServer, clientMod)
				result.IsCompatible = false
				continue
			case RuleRequireBoth:
				// Fall through to normal checking.
			}
		}

		switch {
		case clientMod.Side == SideClient && config.AutoIgnoreClientOnly:
			result.IgnoredMods = append(result.IgnoredMods, clientMod.ID)
			continue
		case clientMod.Side == SideServer:
			// A server-side mod is never expected on the client half of
			// this comparison.
			result.MissingOnServer = append(result.MissingOnServer, clientMod)
			result.IsCompatible = false
			continue
		}

		serverMod, onServer := serverByID[clientMod.ID]
		if !onServer {
			result.MissingOnServer = append(result.MissingOnServer, clientMod)
			result.IsCompatible = false
			continue
		}
		if clientMod.Version != serverMod.Version &&
			clientMod.Version != "" && serverMod.Version != "" {
			result.VersionMismatches = append(result.VersionMismatches, VersionMismatch{
				ModID:         clientMod.ID,
				ModName:       clientMod.Name,
				ClientVersion: clientMod.Version,
				ServerVersion: serverMod.Version,
			})
			result.IsCompatible = false
		}
	}

	for _, serverMod := range serverMods {
		if config.ignored(serverMod.ID) {
			continue
		}
		if _, seen := clientByID[serverMod.ID]; seen {
			continue
		}

		if rule, ok := config.ruleFor(serverMod.ID); ok {
			switch rule.Type {
			case RuleAlwaysIgnore, RuleServerOnly:
				continue
			case RuleClientOnly:
				result.MissingOnClient = append(result.MissingOnClient, serverMod)
				result.IsCompatible = false
				continue
			case RuleRequireBoth:
				// Fall through to normal checking.
			}
		}

		switch {
		case serverMod.Side == SideServer && config.AutoIgnoreServerOnly:
			continue
		case serverMod.Side == SideClient:
			result.MissingOnClient = append(result.MissingOnClient, serverMod)
			result.IsCompatible = false
			continue
		}

		result.MissingOnClient = append(result.MissingOnClient, serverMod)
		result.IsCompatible = false
	}

	return result
}
