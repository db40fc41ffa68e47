package dto

import (
	"github.com/google/uuid"

	"alojasys/internal/domains/room/model"
	"alojasys/shared"
	gDto "alojasys/shared/dto"
	gModel "alojasys/shared/model"
	"alojasys/shared/timezone"
)

type CreateRoomRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Capacity: c.Capacity,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name     string `json:"name"     validate:"omitempty,max=100" db:"name"`
	Capacity int    `json:"capacity" validate:"omitempty,min=1"   db:"capacity"`
	Active   *bool  `json:"active"   validate:"omitempty"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
