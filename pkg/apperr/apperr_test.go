package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromStore(t *testing.T) {
	t.Run("record not found becomes NotFound", func(t *testing.T) {
		err := FromStore(gorm.ErrRecordNotFound, "group")
		assert.True(t, Is(err, KindNotFound))
		assert.Equal(t, "group not found", err.Error())
	})

	t.Run("duplicate key becomes Conflict", func(t *testing.T) {
		err := FromStore(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "user")
		assert.True(t, Is(err, KindConflict))
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		orig := Forbidden("nope")
		assert.Same(t, orig, FromStore(orig, "post"))
	})

	t.Run("anything else is internal and keeps the cause", func(t *testing.T) {
		cause := fmt.Errorf("connection reset")
		err := FromStore(cause, "post")
		assert.Equal(t, KindInternal, KindOf(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, FromStore(nil, "post"))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindAuthentication, KindOf(Authentication("who")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain")))
	assert.False(t, Is(nil, KindInternal))
}
