package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"alojasys/config"
	otelMocks "alojasys/infras/otel/mocks"
	roomMocks "alojasys/internal/domains/room/mocks"
	"alojasys/internal/domains/room/model"
	"alojasys/internal/domains/room/model/dto"
	"alojasys/internal/domains/room/service"
	"alojasys/shared/cache/cachetest"
	"alojasys/shared/failure"
)

type fixture struct {
	svc  service.Room
	repo *roomMocks.MockRoom
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	repo := roomMocks.NewMockRoom(ctrl)

	return &fixture{
		svc:  service.New(repo, cfg, cachetest.New(), otelMocks.NewOtel()),
		repo: repo,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var inserted model.Room
	f.repo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, room model.Room) error {
			inserted = room

			return nil
		})

	res, err := f.svc.Create(ctx, dto.CreateRoomRequest{Name: "Patio Suite", Capacity: 3})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Patio Suite", inserted.Name)
	assert.Equal(t, 3, inserted.Capacity)
	assert.True(t, inserted.Active)
}

func TestUpdate(t *testing.T) {
	t.Run("deactivation survives the zero-value skip", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().Get(ctx, gomock.Any()).Return(model.Room{ID: "room-1", Name: "Patio Suite", Active: true}, nil)

		var updated map[string]any
		f.repo.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields

				return nil
			})

		inactive := false
		err := f.svc.Update(ctx, dto.UpdateRoomRequest{Active: &inactive}, "room-1")

		assert.NoError(t, err)
		assert.Equal(t, false, updated[model.FieldActive])
	})

	t.Run("missing room is not found", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().Get(ctx, gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Update(ctx, dto.UpdateRoomRequest{Name: "Renamed"}, "missing")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.repo.EXPECT().Get(ctx, gomock.Any()).Return(model.Room{ID: "room-1"}, nil)
	f.repo.EXPECT().Delete(ctx, gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(ctx, "room-1"))
}
