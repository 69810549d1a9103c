package manager

import "mc-link/compat"

// Standard directories of a Minecraft installation, relative to its root.
const (
	ModsDir          = "mods"
	ConfigDir        = "config"
	ResourcePacksDir = "resourcepacks"
	ShaderPacksDir   = "shaderpacks"
)

// Instance is the inventory of one installation side as discovered by a
// scan: the mod identities plus existence flags for the auxiliary folders.
// Each scan produces a fresh Instance; rescans replace, never merge.
type Instance struct {
	// Mods are the identities extracted from the mods directory. When the
	// scan ran in parallel mode the order follows download completion, not
	// the directory listing.
	Mods []compat.ModIdentity
	// ModsExist reports whether the mods directory could be listed.
	ModsExist bool
	// ConfigExists reports whether the config directory could be listed.
	ConfigExists bool
	// ResourcePacksExist reports whether the resourcepacks directory could
	// be listed.
	ResourcePacksExist bool
	// ShaderPacksExist reports whether the shaderpacks directory could be
	// listed.
	ShaderPacksExist bool
}

// ModCount returns the number of discovered mods.
func (i *Instance) ModCount() int {
	return len(i.Mods)
}

// HasMods reports whether the mods directory exists and holds mods.
func (i *Instance) HasMods() bool {
	return i.ModsExist && len(i.Mods) > 0
}
