package dbfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"kairos/internal/infra"
	"kairos/internal/repositories"
)

var Module = fx.Provide(
	provideDB, provideSnapshotRepo)

func provideDB() *gorm.DB {
	return infra.InitPostgresql()
}

func provideSnapshotRepo(db *gorm.DB) repositories.SnapshotRepository {
	return repositories.NewSnapshotRepository(db)
}
