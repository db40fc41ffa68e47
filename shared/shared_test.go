package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alojasys/shared"
	"alojasys/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"zero total", 0, 10, 1},
		{"zero limit", 50, 0, 1},
		{"exact pages", 20, 10, 2},
		{"remainder rounds up", 21, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "reservation:get", shared.BuildCacheKey("reservation:get"))
	assert.Equal(t, "reservation:get:abc", shared.BuildCacheKey("reservation:get", "abc"))
	assert.Equal(t, "limiter:1.2.3.4:ua", shared.BuildCacheKey("limiter", "1.2.3.4", "ua"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	first := shared.BuildCacheKeyWithQuery("transfer:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("transfer:gets", params, filter)
	assert.Equal(t, first, second)

	params.Page = 2
	third := shared.BuildCacheKeyWithQuery("transfer:gets", params, filter)
	assert.NotEqual(t, first, third)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("some-id", "id", "reservations")

	assert.Len(t, group.Filters, 1)

	where, args := group.GetWhereClause()
	assert.Contains(t, where, "reservations.id = :id")
	assert.Equal(t, "some-id", args["id"])
}

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("not-a-bool"))

	val := shared.ConvertStringToBool("true")
	if assert.NotNil(t, val) {
		assert.True(t, *val)
	}
}
