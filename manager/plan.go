package manager

import "mc-link/compat"

const keepReason = "Mod ignored by compatibility rules"

// BuildPlan converts a compatibility result into an executable sync plan.
//
// The client inventory is authoritative: mods missing on the server are
// added there, mods missing on the client are removed from the server, and
// version mismatches are resolved toward the client's version. Updates
// locate their source and target files by display name, matching how the
// mismatch entries were recorded.
func BuildPlan(result compat.CompatResult, clientMods, serverMods []compat.ModIdentity) *SyncPlan {
	plan := NewSyncPlan()
	plan.WillBeCompatible = result.IsCompatible

	for _, missing := range result.MissingOnServer {
		plan.AddAction(SyncAction{
			Kind:      ActionAdd,
			ModID:     missing.ID,
			ModName:   missing.Name,
			ToVersion: missing.Version,
			NewPath:   missing.FilePath,
		})
	}

	for _, extra := range result.MissingOnClient {
		plan.AddAction(SyncAction{
			Kind:        ActionRemove,
			ModID:       extra.ID,
			ModName:     extra.Name,
			FromVersion: extra.Version,
			CurrentPath: extra.FilePath,
		})
	}

	for _, mismatch := range result.VersionMismatches {
		source, sourceOK := findByName(clientMods, mismatch.ModName)
		target, targetOK := findByName(serverMods, mismatch.ModName)
		if !sourceOK || !targetOK {
			continue
		}
		plan.AddAction(SyncAction{
			Kind:        ActionUpdate,
			ModID:       mismatch.ModID,
			ModName:     mismatch.ModName,
			FromVersion: mismatch.ServerVersion,
			ToVersion:   mismatch.ClientVersion,
			CurrentPath: target.FilePath,
			NewPath:     source.FilePath,
		})
	}

	for _, ignored := range result.IgnoredMods {
		plan.AddAction(SyncAction{
			Kind:   ActionKeep,
			ModID:  ignored,
			Reason: keepReason,
		})
	}

	return plan
}

func findByName(mods []compat.ModIdentity, name string) (compat.ModIdentity, bool) {
	for _, m := range mods {
		if m.Name == name {
			return m, true
		}
	}
	return compat.ModIdentity{}, false
}
