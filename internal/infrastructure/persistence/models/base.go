package models

import (
	"time"

	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel holds the columns shared by every entity table. Its fields line
// up with shared.BaseEntity so the two convert directly.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseModelOf(e shared.BaseEntity) BaseModel {
	return BaseModel(e)
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity(m)
}

// VersionedModel adds the optimistic lock column used by aggregate roots.
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func versionedModelOf(a shared.BaseAggregateRoot) VersionedModel {
	return VersionedModel{BaseModel: baseModelOf(a.BaseEntity), Version: a.Version}
}

func (m VersionedModel) aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version}
}
