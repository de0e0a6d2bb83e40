package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/selection"
	"github.com/i474232898/weather-dashboard/internal/session"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *session.Manager) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		coords, err := parseCoordinates(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := sessions.Create(c.UserContext(), coords)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}

		view, err := sessions.Get(id)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/sessions/:id/day", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}

		var req selectDayRequest
		if err := bindAndValidate(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := sessions.SelectDay(id, *req.Day)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/sessions/:id/hour", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}

		var req selectHourRequest
		if err := bindAndValidate(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := sessions.SelectHour(id, *req.Hour)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/sessions/:id/unit", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}

		view, err := sessions.ToggleUnit(id)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/sessions/:id/location", func(c *fiber.Ctx) error {
		id, err := parseSessionID(c)
		if err != nil {
			return err
		}
		coords, err := parseCoordinates(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := sessions.UseCurrentLocation(c.UserContext(), id, coords)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(view)
	})
}

// selectDayRequest uses pointers so a missing field is distinguishable from 0.
type selectDayRequest struct {
	Day *int `json:"day" validate:"required,min=0"`
}

type selectHourRequest struct {
	Hour *int `json:"hour" validate:"required,min=0"`
}

// coordinatesRequest is the browser's geolocation result, when it has one.
type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func bindAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}

// parseCoordinates returns nil when the body carries no coordinates.
func parseCoordinates(c *fiber.Ctx) (*location.Coordinates, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}

	var req coordinatesRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if req.Latitude == nil && req.Longitude == nil {
		return nil, nil
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, errors.New("latitude and longitude must be given together")
	}

	coords := &location.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return coords, nil
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, selection.ErrDayOutOfRange),
		errors.Is(err, selection.ErrHourOutOfRange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoForecast):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrForecastUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather forecast")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "unexpected error")
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
