// Package api exposes the economy engine over HTTP. Handlers are thin: they
// parse the request, call one service operation, and map the error taxonomy
// onto status codes. All business rules live in the service layer.
package api

import (
	"github.com/gofiber/fiber/v2"

	"neurocoin/service"
)

// Server wires the economy services into a fiber application
type Server struct {
	app       *fiber.App
	balances  service.BalanceService
	transfers service.TransferService
	market    service.MarketplaceService
	wagers    service.WagerService
	audit     service.AuditService
}

// NewServer creates the HTTP server and registers all routes
func NewServer(
	balances service.BalanceService,
	transfers service.TransferService,
	market service.MarketplaceService,
	wagers service.WagerService,
	audit service.AuditService,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "neurocoin",
			DisableStartupMessage: true,
		}),
		balances:  balances,
		transfers: transfers,
		market:    market,
		wagers:    wagers,
		audit:     audit,
	}

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Get("/balance/:userId", s.handleGetBalance)
	api.Post("/balance/deposit", s.handleDeposit)
	api.Post("/balance/withdraw", s.handleWithdraw)
	api.Get("/leaderboard", s.handleLeaderboard)

	api.Post("/transfer", s.handleTransfer)

	api.Get("/marketplace/listings", s.handleGetListings)
	api.Post("/marketplace/listings", s.handleCreateListing)
	api.Delete("/marketplace/listings/:id", s.handleCancelListing)
	api.Post("/marketplace/purchase", s.handlePurchase)

	api.Get("/wager/games", s.handleGetGames)
	api.Post("/wager/:game", s.handlePlay)

	api.Get("/audit", s.handleAuditQuery)

	return s
}

// App returns the underlying fiber application, used by handler tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
