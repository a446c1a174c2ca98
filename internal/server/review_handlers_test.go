package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReviewEndpoints(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")
	taker := env.createUser(t, "taker")

	mealID, _ := runExchange(t, env, giver.ID, taker.ID, "Ptitim")

	t.Run("invalid role is rejected", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/reviews", taker.ID,
			map[string]interface{}{"meal_id": mealID, "role": "bystander", "user_review": 5})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("create records the review", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodPost, "/api/reviews", taker.ID,
			map[string]interface{}{
				"meal_id":            mealID,
				"reviewee_id":        giver.ID,
				"role":               "taker",
				"user_review":        5,
				"general_experience": 5,
				"comments":           "Great food",
			})
		require.Equal(t, http.StatusCreated, status)

		review := body["review"].(map[string]interface{})
		require.EqualValues(t, taker.ID, review["reviewer_id"])
		require.Equal(t, "taker", review["role"])
	})

	t.Run("resubmission upserts instead of duplicating", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/reviews", taker.ID,
			map[string]interface{}{"meal_id": mealID, "role": "taker", "user_review": 2})
		require.Equal(t, http.StatusCreated, status)

		_, body := env.doJSON(t, http.MethodGet, "/api/reviews/meal/"+itoa(mealID), giver.ID, nil)
		reviews := body["reviews"].([]interface{})
		require.Len(t, reviews, 1)
		require.EqualValues(t, 2, reviews[0].(map[string]interface{})["user_review"])
	})

	t.Run("each party keeps their own review", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/reviews", giver.ID,
			map[string]interface{}{"meal_id": mealID, "role": "giver", "general_experience": 4})
		require.Equal(t, http.StatusCreated, status)

		_, body := env.doJSON(t, http.MethodGet, "/api/reviews/meal/"+itoa(mealID), giver.ID, nil)
		require.Len(t, body["reviews"].([]interface{}), 2)
	})
}
