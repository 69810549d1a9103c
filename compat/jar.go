package compat

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrNoMetadata reports that a single extraction strategy found no usable
// metadata in the archive. It is recovered internally by advancing to the
// next strategy and never escapes ExtractJarInfo.
var ErrNoMetadata = errors.New("no mod metadata found")

const jarVersionPlaceholder = "${file.jarVersion}"

// forgeModsToml mirrors the [[mods]] table of META-INF/mods.toml.
type forgeModsToml struct {
	Mods []forgeModEntry `toml:"mods"`
}

type forgeModEntry struct {
	ModID       string `toml:"modId"`
	DisplayName string `toml:"displayName"`
	Version     string `toml:"version"`
	Side        string `toml:"side"`
}

// fabricModJSON mirrors the fields of fabric.mod.json we care about.
type fabricModJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Environment *string `json:"environment"`
}

// mcModInfo mirrors a legacy mcmod.info entry.
type mcModInfo struct {
	ModID   string `json:"modid"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ExtractJarInfo reads mod metadata from a jar archive.
//
// Extraction strategies are tried in fixed priority order: NeoForge/Forge
// mods.toml, fabric.mod.json, legacy mcmod.info, the jar manifest, and
// finally the filename itself. The first strategy that succeeds wins, so a
// jar carrying a mods.toml never falls through to the filename fallback.
//
// A jar that cannot be opened as a zip container is a hard error. A missing
// or malformed metadata file only fails its own strategy.
func ExtractJarInfo(jarPath string) (ModIdentity, error) {
	archive, err := zip.OpenReader(jarPath)
	if err != nil {
		return ModIdentity{}, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer archive.Close()

	strategies := []func(*zip.Reader, string) (ModIdentity, error){
		extractModsToml,
		extractFabricInfo,
		extractMcModInfo,
		extractManifestInfo,
	}
	for _, strategy := range strategies {
		info, err := strategy(&archive.Reader, jarPath)
		if err == nil {
			return info, nil
		}
	}

	// Filename fallback always succeeds.
	stem := fileStem(jarPath)
	return ModIdentity{
		ID:       stem,
		Name:     stem,
		Version:  "unknown",
		FilePath: jarPath,
		Enabled:  true,
		Side:     SideUnknown,
		Loader:   LoaderUnknown,
	}, nil
}

// extractModsToml reads META-INF/mods.toml (NeoForge and modern Forge).
func extractModsToml(archive *zip.Reader, jarPath string) (ModIdentity, error) {
	contents, err := readArchiveFile(archive, "META-INF/mods.toml")
	if err != nil {
		return ModIdentity{}, err
	}

	var manifest forgeModsToml
	if err := toml.Unmarshal([]byte(contents), &manifest); err != nil {
		return ModIdentity{}, fmt.Errorf("%w: mods.toml parse error: %v", ErrNoMetadata, err)
	}
	if len(manifest.Mods) == 0 {
		return ModIdentity{}, fmt.Errorf("%w: mods.toml declares no mods", ErrNoMetadata)
	}

	entry := manifest.Mods[0]
	version := entry.Version
	if strings.TrimSpace(version) == jarVersionPlaceholder {
		version = "unknown"
		if mv, ok := manifestImplementationVersion(archive); ok {
			version = mv
		}
	}

	name := entry.DisplayName
	if name == "" {
		name = entry.ModID
	}

	return ModIdentity{
		ID:       entry.ModID,
		Name:     name,
		Version:  version,
		FilePath: jarPath,
		Enabled:  true,
		Side:     parseForgeSide(entry.Side),
		Loader:   detectForgeLoader(contents),
	}, nil
}

// detectForgeLoader disambiguates NeoForge from legacy Forge by marker
// substrings in the mods.toml text. No marker is not an error, just Unknown.
func detectForgeLoader(modsToml string) ModLoader {
	switch {
	case strings.Contains(modsToml, "javafml") || strings.Contains(modsToml, "lowcodefml"):
		return LoaderNeoForge
	case strings.Contains(modsToml, "forge") || strings.Contains(modsToml, "minecraftforge"):
		return LoaderForge
	default:
		return LoaderUnknown
	}
}

// extractFabricInfo reads fabric.mod.json from the archive root.
func extractFabricInfo(archive *zip.Reader, jarPath string) (ModIdentity, error) {
	contents, err := readArchiveFile(archive, "fabric.mod.json")
	if err != nil {
		return ModIdentity{}, err
	}

	var info fabricModJSON
	if err := json.Unmarshal([]byte(contents), &info); err != nil {
		return ModIdentity{}, fmt.Errorf("%w: fabric.mod.json parse error: %v", ErrNoMetadata, err)
	}
	if info.ID == "" {
		return ModIdentity{}, fmt.Errorf("%w: fabric.mod.json has no id", ErrNoMetadata)
	}

	// Keep the whole descriptor verbatim for downstream consumers.
	var raw map[string]any
	_ = json.Unmarshal([]byte(contents), &raw)

	name := info.Name
	if name == "" {
		name = info.ID
	}

	environment := ""
	if info.Environment != nil {
		environment = *info.Environment
	}

	return ModIdentity{
		ID:          info.ID,
		Name:        name,
		Version:     info.Version,
		FilePath:    jarPath,
		Enabled:     true,
		Side:        parseFabricSide(environment, info.Environment != nil),
		Loader:      LoaderFabric,
		RawMetadata: raw,
	}, nil
}

// extractMcModInfo reads a legacy mcmod.info descriptor, which may live at
// the archive root or under META-INF and may be a single object or an array.
func extractMcModInfo(archive *zip.Reader, jarPath string) (ModIdentity, error) {
	var contents string
	var err error
	for _, candidate := range []string{"mcmod.info", "META-INF/mcmod.info"} {
		contents, err = readArchiveFile(archive, candidate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return ModIdentity{}, err
	}

	var entry mcModInfo
	if strings.HasPrefix(strings.TrimSpace(contents), "[") {
		var entries []mcModInfo
		if err := json.Unmarshal([]byte(contents), &entries); err != nil {
			return ModIdentity{}, fmt.Errorf("%w: mcmod.info array parse error: %v", ErrNoMetadata, err)
		}
		if len(entries) == 0 {
			return ModIdentity{}, fmt.Errorf("%w: mcmod.info array is empty", ErrNoMetadata)
		}
		entry = entries[0]
	} else {
		if err := json.Unmarshal([]byte(contents), &entry); err != nil {
			return ModIdentity{}, fmt.Errorf("%w: mcmod.info parse error: %v", ErrNoMetadata, err)
		}
	}
	if entry.ModID == "" {
		return ModIdentity{}, fmt.Errorf("%w: mcmod.info has no modid", ErrNoMetadata)
	}

	name := entry.Name
	if name == "" {
		name = entry.ModID
	}

	return ModIdentity{
		ID:       entry.ModID,
		Name:     name,
		Version:  entry.Version,
		FilePath: jarPath,
		Enabled:  true,
		// mcmod.info carries no side information.
		Side:   SideBoth,
		Loader: LoaderForge,
	}, nil
}

// extractManifestInfo derives an identity from META-INF/MANIFEST.MF
// attributes. It fails rather than fabricate an all-unknown identity; the
// filename fallback owns that case.
func extractManifestInfo(archive *zip.Reader, jarPath string) (ModIdentity, error) {
	attrs, err := readManifestAttributes(archive)
	if err != nil {
		return ModIdentity{}, err
	}

	name := firstAttribute(attrs, "implementation-title", "specification-title", "bundle-name")
	version := firstAttribute(attrs, "implementation-version", "specification-version", "bundle-version")
	if name == "" && version == "" {
		return ModIdentity{}, fmt.Errorf("%w: manifest has no usable attributes", ErrNoMetadata)
	}
	if name == "" {
		name = "unknown"
	}
	if version == "" {
		version = "unknown"
	}

	id := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(name))
	return ModIdentity{
		ID:       id,
		Name:     name,
		Version:  version,
		FilePath: jarPath,
		Enabled:  true,
		Side:     SideBoth,
		Loader:   LoaderUnknown,
	}, nil
}

// manifestImplementationVersion resolves the ${file.jarVersion} placeholder.
func manifestImplementationVersion(archive *zip.Reader) (string, bool) {
	attrs, err := readManifestAttributes(archive)
	if err != nil {
		return "", false
	}
	if v, ok := attrs["implementation-version"]; ok {
		return v, true
	}
	return "", false
}

// readManifestAttributes parses MANIFEST.MF as colon-delimited key/value
// pairs with lower-cased keys.
func readManifestAttributes(archive *zip.Reader) (map[string]string, error) {
	contents, err := readArchiveFile(archive, "META-INF/MANIFEST.MF")
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]string)
	for _, line := range strings.Split(contents, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return attrs, nil
}

func firstAttribute(attrs map[string]string, keys ...string) string {
	for _, key := range keys {
		if v, ok := attrs[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// readArchiveFile returns the contents of a named file inside the archive,
// or ErrNoMetadata if it is absent or unreadable.
func readArchiveFile(archive *zip.Reader, name string) (string, error) {
	file, err := archive.Open(name)
	if err != nil {
		return "", fmt.Errorf("%w: no %s", ErrNoMetadata, name)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", ErrNoMetadata, name, err)
	}
	return string(data), nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
