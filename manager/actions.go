package manager

// ActionKind enumerates the reconciliation action types.
type ActionKind string

const (
	ActionUpdate ActionKind = "update"
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
	ActionKeep   ActionKind = "keep"
)

// SyncAction is one executable reconciliation step. Every field needed to
// execute the action is carried here so execution never re-derives state
// from the inventories.
type SyncAction struct {
	Kind    ActionKind `json:"kind"`
	ModID   string     `json:"mod_id"`
	ModName string     `json:"mod_name,omitempty"`
	// FromVersion and ToVersion are set for update actions.
	FromVersion string `json:"from_version,omitempty"`
	ToVersion   string `json:"to_version,omitempty"`
	// CurrentPath is the existing file on the reconciliation target, set
	// for update and remove actions.
	CurrentPath string `json:"current_path,omitempty"`
	// NewPath is the source file to transfer, set for update and add.
	NewPath string `json:"new_path,omitempty"`
	// Reason explains keep-as-is actions.
	Reason string `json:"reason,omitempty"`
}

// SyncSummary counts planned actions per kind.
type SyncSummary struct {
	ModsToUpdate int `json:"mods_to_update"`
	ModsToAdd    int `json:"mods_to_add"`
	ModsToRemove int `json:"mods_to_remove"`
	ModsToKeep   int `json:"mods_to_keep"`
	TotalMods    int `json:"total_mods"`
}

// SyncPlan is an ordered list of reconciliation actions plus a summary and
// the projected compatibility verdict after execution.
type SyncPlan struct {
	Actions          []SyncAction `json:"actions"`
	Summary          SyncSummary  `json:"summary"`
	WillBeCompatible bool         `json:"will_be_compatible"`
}

// NewSyncPlan creates an empty plan.
func NewSyncPlan() *SyncPlan {
	return &SyncPlan{Actions: []SyncAction{}, WillBeCompatible: true}
}

// AddAction appends an action and updates the summary counters in the same
// step, so the counters can never drift from the action list.
func (p *SyncPlan) AddAction(action SyncAction) {
	switch action.Kind {
	case ActionUpdate:
		p.Summary.ModsToUpdate++
	case ActionAdd:
		p.Summary.ModsToAdd++
	case ActionRemove:
		p.Summary.ModsToRemove++
	case ActionKeep:
		p.Summary.ModsToKeep++
	}
	p.Summary.TotalMods++
	p.Actions = append(p.Actions, action)
}

// HasChanges reports whether the plan performs any file operation.
func (p *SyncPlan) HasChanges() bool {
	return p.Summary.ModsToUpdate > 0 || p.Summary.ModsToAdd > 0 || p.Summary.ModsToRemove > 0
}
