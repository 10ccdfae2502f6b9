package db_models

// DestinationSnapshot is the durable tier of the destination cache: the
// fully validated context serialized as JSON, keyed by normalized name.
// Survives process restarts so warm destinations skip the provider fetch.
type DestinationSnapshot struct {
	BaseModel
	Destination string `gorm:"uniqueIndex;size:255;not null"`
	Payload     []byte `gorm:"type:jsonb;not null"`
	PlaceCount  int
	RegionCount int
}

func (DestinationSnapshot) TableName() string {
	return "destination_snapshots"
}
