package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"neurocoin/games"
	"neurocoin/service"
)

// fail maps a service error onto the uniform error payload. Expected taxonomy
// errors surface their own message; anything unrecognized is an internal
// error and its detail stays in the logs.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()

	if status >= fiber.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")

		if !errors.Is(err, service.ErrSettlementFailed) && !errors.Is(err, service.ErrStorageUnavailable) {
			message = "internal server error"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, service.ErrInsufficientFunds):
		return fiber.StatusPaymentRequired
	case errors.Is(err, service.ErrListingUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotListingOwner):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidStake),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrSelfPurchase),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrUnknownGame),
		errors.Is(err, games.ErrBadParams):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
