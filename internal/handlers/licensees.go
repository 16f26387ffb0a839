// Package handlers exposes the licensee registry as a read-only JSON API.
package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jwalters/qslpress/internal/store"
)

// HomeHandler returns registry statistics.
func HomeHandler(licensees *store.LicenseeStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		total, err := licensees.Count(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count licensees"})
		}
		active, err := licensees.CountActive(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count licensees"})
		}

		return c.JSON(fiber.Map{
			"licensees": total,
			"active":    active,
		})
	}
}

// LicenseeHandler looks up the active licensee record for a callsign.
// No match is a 404; an ambiguous callsign is a 500 because it means the
// registry data is corrupt.
func LicenseeHandler(licensees *store.LicenseeStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		callsign := c.Params("callsign")

		rec, err := licensees.FindActiveLicensee(ctx, callsign)
		if errors.Is(err, store.ErrAmbiguousCallsign) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "more than one active record for " + callsign,
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
		}
		if rec == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no active licensee for " + callsign,
			})
		}

		return c.JSON(rec)
	}
}
