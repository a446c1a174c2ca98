package server

import (
	"io"
	"strconv"
	"strings"

	"github.com/Galomer310/ManisR-backend/internal/models"
	"github.com/Galomer310/ManisR-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mealRequest carries the listing fields shared by create and update.
// Lat/lng arrive as strings because the client posts multipart form data.
type mealRequest struct {
	ItemDescription string `json:"item_description" form:"item_description"`
	PickupAddress   string `json:"pickup_address" form:"pickup_address"`
	BoxOption       string `json:"box_option" form:"box_option"`
	FoodTypes       string `json:"food_types" form:"food_types"`
	Ingredients     string `json:"ingredients" form:"ingredients"`
	SpecialNotes    string `json:"special_notes" form:"special_notes"`
	Lat             string `json:"lat" form:"lat"`
	Lng             string `json:"lng" form:"lng"`
}

func (r mealRequest) coordinates(c *fiber.Ctx) (lat, lng *float64, err error) {
	parse := func(s string) (*float64, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	lat, err = parse(r.Lat)
	if err == nil {
		lng, err = parse(r.Lng)
	}
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid coordinates"))
		return nil, nil, errResponseWritten
	}
	return lat, lng, nil
}

// saveMealImage processes an optional uploaded photo and returns its URL path.
func (s *Server) saveMealImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// No image attached; the listing simply has no photo.
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid image upload"))
		return "", errResponseWritten
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
		return "", errResponseWritten
	}

	url, err := s.imageService.Process(content)
	if err != nil {
		_ = respondServiceError(c, err)
		return "", errResponseWritten
	}
	return url, nil
}

// CreateMeal handles POST /api/meals
func (s *Server) CreateMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req mealRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	lat, lng, err := req.coordinates(c)
	if err != nil {
		return nil
	}
	imageURL, err := s.saveMealImage(c)
	if err != nil {
		return nil
	}

	meal, err := s.listingService.CreateListing(c.UserContext(), service.CreateListingInput{
		GiverID:         userID,
		ItemDescription: req.ItemDescription,
		PickupAddress:   req.PickupAddress,
		BoxOption:       req.BoxOption,
		FoodTypes:       req.FoodTypes,
		Ingredients:     req.Ingredients,
		SpecialNotes:    req.SpecialNotes,
		ImageURL:        imageURL,
		Lat:             lat,
		Lng:             lng,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"meal_id": meal.ID,
		"meal":    meal,
	})
}

// GetAvailableMeals handles GET /api/meals/available
func (s *Server) GetAvailableMeals(c *fiber.Ctx) error {
	meals, err := s.listingService.ListAvailable(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"meals": meals})
}

// GetMyMeal handles GET /api/meals/mine. A giver with no live listing gets
// an explicit null, not a 404.
func (s *Server) GetMyMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	meal, err := s.listingService.GetMyListing(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"meal": meal})
}

// UpdateMyMeal handles PUT /api/meals/mine
func (s *Server) UpdateMyMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req mealRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	lat, lng, err := req.coordinates(c)
	if err != nil {
		return nil
	}

	if err := s.listingService.UpdateMyListing(c.UserContext(), userID, service.UpdateListingInput{
		ItemDescription: req.ItemDescription,
		PickupAddress:   req.PickupAddress,
		BoxOption:       req.BoxOption,
		FoodTypes:       req.FoodTypes,
		Ingredients:     req.Ingredients,
		SpecialNotes:    req.SpecialNotes,
		Lat:             lat,
		Lng:             lng,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Meal updated"})
}

// CancelMyMeal handles DELETE /api/meals/mine. The listing and its
// conversation are removed together.
func (s *Server) CancelMyMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.listingService.CancelMyListing(c.UserContext(), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Meal cancelled"})
}

// GetMeal handles GET /api/meals/:id
func (s *Server) GetMeal(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	meal, err := s.listingService.GetListing(c.UserContext(), mealID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"meal": meal})
}

// ReserveMeal handles POST /api/meals/:id/reserve. Exactly one concurrent
// caller wins; everyone else sees a conflict.
func (s *Server) ReserveMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	mealID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	meal, err := s.listingService.Reserve(c.UserContext(), mealID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"meal": meal})
}

// CollectMeal handles DELETE /api/meals/:id/collect. Success archives the
// exchange and removes the live listing.
func (s *Server) CollectMeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	mealID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	record, err := s.listingService.Collect(c.UserContext(), mealID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"history": record})
}

// SetMealStatus handles PUT /api/meals/:id/status (admin override).
func (s *Server) SetMealStatus(c *fiber.Ctx) error {
	mealID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.listingService.ForceStatus(c.UserContext(), mealID, req.Status); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Meal status updated"})
}
