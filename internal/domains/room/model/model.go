package model

import "alojasys/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldName     = "name"
	FieldCapacity = "capacity"
	FieldActive   = "active"
)

type Room struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Capacity int    `db:"capacity"`
	Active   bool   `db:"active"`
	model.Metadata
}
