package models

// All returns every persisted model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Type{},
		&Category{},
		&Playlist{},
		&Video{},
		&VideoDetail{},
		&VideoFilter{},
		&DashboardEntry{},
		&PartitionEntry{},
		&PlaylistEntry{},
		&IngestionRun{},
	}
}
