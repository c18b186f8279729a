package model

import (
	"database/sql"
	"time"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Location{},
}

// Location is one persisted marker. Ordinal preserves listing order since the
// whole set is rewritten on every save.
type Location struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Ordinal   int            `json:"ordinal" gorm:"column:position;index:idx_location_position"`
	Name      string         `json:"name" gorm:"type:text;uniqueIndex:idx_location_name"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Z         float64        `json:"z"`
	Dim       int            `json:"dim"`
	Desc      sql.NullString `json:"desc" gorm:"type:text"`
}

func (*Location) TableName() string {
	return "locations"
}
