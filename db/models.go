package db

import (
	"gorm.io/gorm"
)

// SyncRun records one executed (or planned) synchronization.
type SyncRun struct {
	gorm.Model
	// ClientModCount and ServerModCount snapshot the inventories compared.
	ClientModCount int
	ServerModCount int
	// WasCompatible is the verdict before the run.
	WasCompatible bool
	// Counters copied from the plan summary.
	ModsUpdated int
	ModsAdded   int
	ModsRemoved int
	ModsKept    int
	// Applied is false for dry runs that only recorded the plan.
	Applied bool
	Actions []SyncActionRecord `gorm:"foreignKey:SyncRunID"`
}

// SyncActionRecord is one action of a recorded sync run.
type SyncActionRecord struct {
	gorm.Model
	SyncRunID   uint `gorm:"index"`
	Kind        string
	ModID       string
	ModName     string
	FromVersion string
	ToVersion   string
	CurrentPath string
	NewPath     string
	Reason      string
}
