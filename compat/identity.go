package compat

// ModSide describes which side of an installation a mod is required on.
type ModSide string

const (
	SideClient  ModSide = "client"
	SideServer  ModSide = "server"
	SideBoth    ModSide = "both"
	SideUnknown ModSide = "unknown"
)

// ModLoader identifies the mod-loading runtime family a mod targets.
type ModLoader string

const (
	LoaderNeoForge ModLoader = "neoforge"
	LoaderForge    ModLoader = "forge"
	LoaderFabric   ModLoader = "fabric"
	LoaderUnknown  ModLoader = "unknown"
)

// ModIdentity is the canonical metadata record extracted from a mod archive.
// Values are treated as immutable once constructed; copies are cheap and safe
// to share across inventories and cache entries.
type ModIdentity struct {
	// ID is the stable mod identifier (slug), unique within one inventory.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// Version is a free-form version string; no semver parsing is done.
	Version string `json:"version"`
	// FilePath is the location of the archive this identity was read from.
	// For scanned inventories this is the remote path, not the temp copy.
	FilePath string `json:"file_path"`
	// Enabled reports whether the mod is active.
	Enabled bool `json:"enabled"`
	// Side is the side affinity declared by the mod's metadata.
	Side ModSide `json:"side"`
	// Loader is the loader family the mod targets.
	Loader ModLoader `json:"loader"`
	// RawMetadata preserves the full descriptor key/value pairs, when the
	// source format provides them, for downstream consumers.
	RawMetadata map[string]any `json:"raw_metadata,omitempty"`
}

// parseFabricSide maps a fabric.mod.json "environment" value to a ModSide.
func parseFabricSide(environment string, present bool) ModSide {
	if !present {
		return SideBoth
	}
	switch environment {
	case "client":
		return SideClient
	case "server":
		return SideServer
	case "*":
		return SideBoth
	default:
		return SideUnknown
	}
}

// parseForgeSide maps a mods.toml "side" value to a ModSide. The field is
// case-sensitive in the loader itself, so it is matched case-sensitively here.
func parseForgeSide(side string) ModSide {
	switch side {
	case "", "BOTH":
		return SideBoth
	case "CLIENT":
		return SideClient
	case "SERVER":
		return SideServer
	default:
		return SideUnknown
	}
}
