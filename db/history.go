package db

import "mc-link/manager"

// RecordSyncRun persists a plan (and whether it was applied) to history.
func RecordSyncRun(plan *manager.SyncPlan, clientMods, serverMods int, applied bool) error {
	run := SyncRun{
		ClientModCount: clientMods,
		ServerModCount: serverMods,
		WasCompatible:  plan.WillBeCompatible,
		ModsUpdated:    plan.Summary.ModsToUpdate,
		ModsAdded:      plan.Summary.ModsToAdd,
		ModsRemoved:    plan.Summary.ModsToRemove,
		ModsKept:       plan.Summary.ModsToKeep,
		Applied:        applied,
	}
	for _, action := range plan.Actions {
		run.Actions = append(run.Actions, SyncActionRecord{
			Kind:        string(action.Kind),
			ModID:       action.ModID,
			ModName:     action.ModName,
			FromVersion: action.FromVersion,
			ToVersion:   action.ToVersion,
			CurrentPath: action.CurrentPath,
			NewPath:     action.NewPath,
			Reason:      action.Reason,
		})
	}
	return DB.Create(&run).Error
}

// RecentSyncRuns returns the newest runs, most recent first.
func RecentSyncRuns(limit int) ([]SyncRun, error) {
	var runs []SyncRun
	err := DB.Preload("Actions").Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
