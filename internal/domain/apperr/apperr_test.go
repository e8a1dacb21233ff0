package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load loft: %w", NotFound("loft"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestValidation(t *testing.T) {
	assert.NoError(t, Validation(nil))

	err := Validation([]FieldError{{Field: "name", Constraint: "required"}, {Field: "capacity", Constraint: "gte"}})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation: validation failed (name=required, capacity=gte)", err.Error())

	single := Invalid("frequency", "oneof")
	assert.Len(t, single.Fields, 1)
	assert.Equal(t, "frequency", single.Fields[0].Field)
}
