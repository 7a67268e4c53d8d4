package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	t.Run("identity repository with nil querier", func(t *testing.T) {
		repo := NewIdentityRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})

	t.Run("activity repository with nil querier", func(t *testing.T) {
		repo := NewActivityRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})

	t.Run("flag repository with nil querier", func(t *testing.T) {
		repo := NewFlagRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})

	t.Run("score repository with nil querier", func(t *testing.T) {
		repo := NewScoreRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})
}
