package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Document maps the documents table. Timestamps are owned by the database:
// they are read back on insert but never written from Go.
type Document struct {
	Id        int64             `gorm:"primaryKey;autoIncrement"`
	Content   string            `gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding pgvector.Vector   `gorm:"type:vector"`
	CreatedAt *time.Time        `gorm:"default:CURRENT_TIMESTAMP;autoCreateTime:false"`
	UpdatedAt *time.Time        `gorm:"default:CURRENT_TIMESTAMP;autoUpdateTime:false"`
}

func (Document) TableName() string {
	return "documents"
}

// ScoredDocument is the row shape of a similarity query.
type ScoredDocument struct {
	Id         int64
	Content    string
	Metadata   datatypes.JSONMap
	Similarity float64
}
