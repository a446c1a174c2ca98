package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func itoa(n int) string { return strconv.Itoa(n) }

func mealBody(desc string) map[string]interface{} {
	return map[string]interface{}{
		"item_description": desc,
		"pickup_address":   "12 Herzl St, Tel Aviv",
		"box_option":       "need",
		"food_types":       "vegetarian",
		"ingredients":      "rice, lentils",
		"lat":              "32.0853",
		"lng":              "34.7818",
	}
}

func TestCreateMeal(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")

	t.Run("creates a listing", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Lentil stew"))
		require.Equal(t, http.StatusCreated, status)
		require.NotZero(t, body["meal_id"])

		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "Lentil stew", meal["item_description"])
		require.Equal(t, "available", meal["status"])
	})

	t.Run("second live listing by same giver is rejected", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Second dish"))
		require.Equal(t, http.StatusConflict, status)
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		other := env.createUser(t, "other")
		status, _ := env.doJSON(t, http.MethodPost, "/api/meals", other.ID, map[string]interface{}{
			"item_description": "No address",
		})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed coordinates are rejected", func(t *testing.T) {
		other := env.createUser(t, "badcoords")
		body := mealBody("Falafel")
		body["lat"] = "north-ish"
		status, _ := env.doJSON(t, http.MethodPost, "/api/meals", other.ID, body)
		require.Equal(t, http.StatusBadRequest, status)
	})
}

func TestBrowseAndGetMeal(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")
	taker := env.createUser(t, "taker")

	_, created := env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Shakshuka"))
	mealID := int(created["meal_id"].(float64))

	t.Run("available meals include giver username", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodGet, "/api/meals/available", taker.ID, nil)
		require.Equal(t, http.StatusOK, status)

		meals := body["meals"].([]interface{})
		require.Len(t, meals, 1)
		meal := meals[0].(map[string]interface{})
		require.Equal(t, "Shakshuka", meal["item_description"])
		require.Equal(t, "giver", meal["giver_username"])
	})

	t.Run("fetch by id", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodGet, "/api/meals/"+itoa(mealID), taker.ID, nil)
		require.Equal(t, http.StatusOK, status)
		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "Shakshuka", meal["item_description"])
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodGet, "/api/meals/99999", taker.ID, nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodGet, "/api/meals/abc", taker.ID, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})
}

func TestMyMealEndpoints(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")

	t.Run("no live listing yields explicit null", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodGet, "/api/meals/mine", giver.ID, nil)
		require.Equal(t, http.StatusOK, status)
		require.Nil(t, body["meal"])
	})

	t.Run("update without a listing is 404", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPut, "/api/meals/mine", giver.ID, mealBody("Nothing yet"))
		require.Equal(t, http.StatusNotFound, status)
	})

	env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Hummus plate"))

	t.Run("mine returns the live listing", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodGet, "/api/meals/mine", giver.ID, nil)
		require.Equal(t, http.StatusOK, status)
		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "Hummus plate", meal["item_description"])
	})

	t.Run("update applies in place", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPut, "/api/meals/mine", giver.ID, mealBody("Hummus plate, extra pita"))
		require.Equal(t, http.StatusOK, status)

		_, body := env.doJSON(t, http.MethodGet, "/api/meals/mine", giver.ID, nil)
		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "Hummus plate, extra pita", meal["item_description"])
	})

	t.Run("cancel removes the listing", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodDelete, "/api/meals/mine", giver.ID, nil)
		require.Equal(t, http.StatusOK, status)

		_, body := env.doJSON(t, http.MethodGet, "/api/meals/mine", giver.ID, nil)
		require.Nil(t, body["meal"])
	})
}

func TestReserveAndCollect(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")
	taker := env.createUser(t, "taker")
	rival := env.createUser(t, "rival")

	_, created := env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Stuffed peppers"))
	mealID := itoa(int(created["meal_id"].(float64)))

	t.Run("giver cannot reserve own meal", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/meals/"+mealID+"/reserve", giver.ID, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("first taker wins the hold", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodPost, "/api/meals/"+mealID+"/reserve", taker.ID, nil)
		require.Equal(t, http.StatusOK, status)

		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "reserved", meal["status"])
		require.EqualValues(t, taker.ID, meal["taker_id"])
	})

	t.Run("second taker sees a conflict", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPost, "/api/meals/"+mealID+"/reserve", rival.ID, nil)
		require.Equal(t, http.StatusConflict, status)
	})

	t.Run("reserved meal leaves the browse view", func(t *testing.T) {
		_, body := env.doJSON(t, http.MethodGet, "/api/meals/available", rival.ID, nil)
		require.Empty(t, body["meals"])
	})

	t.Run("a stranger cannot collect", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodDelete, "/api/meals/"+mealID+"/collect", rival.ID, nil)
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("collect archives the exchange", func(t *testing.T) {
		status, body := env.doJSON(t, http.MethodDelete, "/api/meals/"+mealID+"/collect", giver.ID, nil)
		require.Equal(t, http.StatusOK, status)

		record := body["history"].(map[string]interface{})
		require.EqualValues(t, giver.ID, record["giver_id"])
		require.EqualValues(t, taker.ID, record["taker_id"])

		// The live listing is gone.
		status, _ = env.doJSON(t, http.MethodGet, "/api/meals/"+mealID, giver.ID, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestSetMealStatus(t *testing.T) {
	env := setupTestServer(t)
	giver := env.createUser(t, "giver")
	admin := env.createAdmin(t, "admin")

	_, created := env.doJSON(t, http.MethodPost, "/api/meals", giver.ID, mealBody("Couscous"))
	mealID := itoa(int(created["meal_id"].(float64)))

	t.Run("non-admin is forbidden", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPut, "/api/meals/"+mealID+"/status", giver.ID,
			map[string]interface{}{"status": "collected"})
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPut, "/api/meals/"+mealID+"/status", admin.ID,
			map[string]interface{}{"status": "eaten"})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("admin override applies", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodPut, "/api/meals/"+mealID+"/status", admin.ID,
			map[string]interface{}{"status": "collected"})
		require.Equal(t, http.StatusOK, status)

		_, body := env.doJSON(t, http.MethodGet, "/api/meals/"+mealID, admin.ID, nil)
		meal := body["meal"].(map[string]interface{})
		require.Equal(t, "collected", meal["status"])
	})
}
