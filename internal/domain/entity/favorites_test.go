package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserFavorites_DropsBlanksAndDuplicates(t *testing.T) {
	favorites := NewUserFavorites("u-1", []string{"a", "", "b", "a", "c"})

	assert.Equal(t, "u-1", favorites.UserID)
	assert.Equal(t, []string{"a", "b", "c"}, favorites.RestaurantIDs)
}

func TestUserFavorites_WithAndWithout(t *testing.T) {
	base := NewUserFavorites("u-1", []string{"a", "b"})

	added := base.With("c")
	assert.Equal(t, []string{"a", "b", "c"}, added.RestaurantIDs)
	assert.Equal(t, []string{"a", "b"}, base.RestaurantIDs, "receiver must not change")

	again := added.With("c")
	assert.Equal(t, added.RestaurantIDs, again.RestaurantIDs)

	removed := added.Without("a")
	assert.Equal(t, []string{"b", "c"}, removed.RestaurantIDs)
	assert.Equal(t, []string{"a", "b", "c"}, added.RestaurantIDs)

	assert.Equal(t, removed.RestaurantIDs, removed.Without("missing").RestaurantIDs)
}

func TestUserFavorites_ToggleIsInvolution(t *testing.T) {
	base := NewUserFavorites("u-1", []string{"a", "b"})

	toggle := func(f UserFavorites, id string) UserFavorites {
		if f.Contains(id) {
			return f.Without(id)
		}

		return f.With(id)
	}

	for _, id := range []string{"a", "z"} {
		twice := toggle(toggle(base, id), id)
		assert.ElementsMatch(t, base.RestaurantIDs, twice.RestaurantIDs, "id %s", id)
	}
}
