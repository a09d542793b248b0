package result

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessAndFailure(t *testing.T) {
	ok := Success(42)
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, 42, ok.Value())
	assert.Nil(t, ok.Err())

	bad := Failure[int](NewError(BadRequest, "nope"))
	assert.False(t, bad.IsSuccess())
	assert.Equal(t, "nope", bad.Err().Message)
}

func TestVoidResults(t *testing.T) {
	assert.True(t, Ok().IsSuccess())

	failed := Fail(NewError(NotFound, "missing"))
	assert.False(t, failed.IsSuccess())
	assert.Equal(t, NotFound, failed.Err().Type)
}

func TestErrorStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewError(BadRequest, "").Status())
	assert.Equal(t, http.StatusNotFound, NewError(NotFound, "").Status())
	assert.Equal(t, http.StatusInternalServerError, NewError(ServerError, "").Status())
}

func TestErrorImplementsError(t *testing.T) {
	var err error = NewError(ServerError, "boom")
	assert.Equal(t, "boom", err.Error())
}

// Успех с nil-указателем — легальное состояние: "не найдено" для GetByFilter.
func TestSuccessWithNilValue(t *testing.T) {
	res := Success[*int](nil)
	assert.True(t, res.IsSuccess())
	assert.Nil(t, res.Value())
}
