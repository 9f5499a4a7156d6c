package settingsRepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoSettingsRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyspace.settings", mtest.FirstBatch, bson.D{
			{Key: "category", Value: "payment"},
			{Key: "provider", Value: "razorpay"},
			{Key: "isActive", Value: true},
			{Key: "settings", Value: bson.D{
				{Key: "keyId", Value: "rzp_test_1"},
				{Key: "keySecret", Value: "secret"},
				{Key: "retries", Value: 3},
			}},
		}))

		s, err := repo.Get(context.Background(), "payment", "razorpay")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.True(t, s.IsActive)
		assert.Equal(t, "secret", s.Value("keySecret"))
		assert.Equal(t, "", s.Value("webhookSecret"))
		assert.Equal(t, "", s.Value("retries"))
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewMongoSettingsRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyspace.settings", mtest.FirstBatch))

		s, err := repo.Get(context.Background(), "payment", "razorpay")
		assert.NoError(t, err)
		assert.Nil(t, s)
	})
}
