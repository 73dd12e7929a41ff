package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"neurocoin/models"
)

// Response DTOs. Models carry db tags only; the wire shape is owned here.

type balanceResponse struct {
	UserID int64 `json:"user_id"`
	Wallet int64 `json:"wallet"`
	Bank   int64 `json:"bank"`
	Total  int64 `json:"total"`
}

func toBalanceResponse(r *models.BalanceRecord) balanceResponse {
	return balanceResponse{
		UserID: r.UserID,
		Wallet: r.Wallet,
		Bank:   r.Bank,
		Total:  r.Total(),
	}
}

type listingResponse struct {
	ID        string     `json:"id"`
	SellerID  int64      `json:"seller_id"`
	ItemRef   string     `json:"item_ref"`
	Price     int64      `json:"price"`
	Status    string     `json:"status"`
	BuyerID   *int64     `json:"buyer_id,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toListingResponse(l *models.Listing) listingResponse {
	return listingResponse{
		ID:        l.ID,
		SellerID:  l.SellerID,
		ItemRef:   l.ItemRef,
		Price:     l.Price,
		Status:    string(l.Status),
		BuyerID:   l.BuyerID,
		SettledAt: l.SettledAt,
		CreatedAt: l.CreatedAt,
	}
}

type auditEntryResponse struct {
	ID        int64          `json:"id"`
	GuildID   int64          `json:"guild_id"`
	EventType string         `json:"type"`
	Severity  string         `json:"severity"`
	ActorID   int64          `json:"actor_id"`
	TargetID  *int64         `json:"target_id,omitempty"`
	Amount    *int64         `json:"amount,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (s *Server) handleGetBalance(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	record, err := s.balances.GetBalance(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toBalanceResponse(record))
}

type moveRequest struct {
	GuildID int64 `json:"guild_id"`
	UserID  int64 `json:"user_id"`
	Amount  int64 `json:"amount"`
}

func (s *Server) handleDeposit(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	record, err := s.balances.Deposit(c.Context(), req.GuildID, req.UserID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toBalanceResponse(record))
}

func (s *Server) handleWithdraw(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	record, err := s.balances.Withdraw(c.Context(), req.GuildID, req.UserID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toBalanceResponse(record))
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	records, err := s.balances.GetLeaderboard(c.Context(), limit)
	if err != nil {
		return fail(c, err)
	}

	entries := make([]balanceResponse, len(records))
	for i, r := range records {
		entries[i] = toBalanceResponse(r)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (s *Server) handleTransfer(c *fiber.Ctx) error {
	var req struct {
		GuildID    int64 `json:"guild_id"`
		FromUserID int64 `json:"from_user_id"`
		ToUserID   int64 `json:"to_user_id"`
		Amount     int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	receipt, err := s.transfers.Transfer(c.Context(), req.GuildID, req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"from_user_id":  receipt.FromUserID,
		"to_user_id":    receipt.ToUserID,
		"amount":        receipt.Amount,
		"sender_wallet": receipt.SenderWallet,
		"timestamp":     receipt.Timestamp,
	})
}

func (s *Server) handleGetListings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	listings, err := s.market.GetActiveListings(c.Context(), limit)
	if err != nil {
		return fail(c, err)
	}

	out := make([]listingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return c.JSON(fiber.Map{"listings": out})
}

func (s *Server) handleCreateListing(c *fiber.Ctx) error {
	var req struct {
		GuildID  int64  `json:"guild_id"`
		SellerID int64  `json:"seller_id"`
		ItemRef  string `json:"item_ref"`
		Price    int64  `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ItemRef == "" {
		return badRequest(c, "item_ref is required")
	}

	listing, err := s.market.CreateListing(c.Context(), req.GuildID, req.SellerID, req.ItemRef, req.Price)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toListingResponse(listing))
}

func (s *Server) handleCancelListing(c *fiber.Ctx) error {
	listingID := c.Params("id")
	sellerID, err := strconv.ParseInt(c.Query("seller_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid seller id")
	}
	var guildID int64
	if v := c.Query("guild_id"); v != "" {
		guildID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid guild id")
		}
	}

	if err := s.market.CancelListing(c.Context(), guildID, sellerID, listingID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handlePurchase(c *fiber.Ctx) error {
	var req struct {
		GuildID   int64  `json:"guild_id"`
		BuyerID   int64  `json:"buyer_id"`
		ListingID string `json:"listing_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	receipt, err := s.market.Purchase(c.Context(), req.GuildID, req.BuyerID, req.ListingID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"listing_id":    receipt.ListingID,
		"buyer_id":      receipt.BuyerID,
		"seller_id":     receipt.SellerID,
		"item_ref":      receipt.ItemRef,
		"price":         receipt.Price,
		"fee":           receipt.Fee,
		"seller_credit": receipt.SellerCredit,
		"settled_at":    receipt.SettledAt,
	})
}

func (s *Server) handleGetGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"games": s.wagers.Games()})
}

func (s *Server) handlePlay(c *fiber.Ctx) error {
	game := c.Params("game")

	var req struct {
		GuildID int64             `json:"guild_id"`
		UserID  int64             `json:"user_id"`
		Stake   int64             `json:"stake"`
		Params  map[string]string `json:"params"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	outcome, err := s.wagers.Play(c.Context(), req.GuildID, req.UserID, game, req.Stake, req.Params)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"game":       outcome.Game,
		"stake":      outcome.Stake,
		"multiplier": outcome.Multiplier,
		"payout":     outcome.Payout,
		"net_change": outcome.NetChange,
		"new_wallet": outcome.NewWallet,
		"won":        outcome.Won(),
		"details":    outcome.Details,
	})
}

func (s *Server) handleAuditQuery(c *fiber.Ctx) error {
	filter := models.AuditFilter{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 25),
	}

	if v := c.Query("guildId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid guildId")
		}
		filter.GuildID = &id
	}
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid userId")
		}
		filter.ActorID = &id
	}
	if v := c.Query("type"); v != "" {
		t := models.AuditEventType(v)
		filter.EventType = &t
	}
	if v := c.Query("severity"); v != "" {
		sev := models.AuditSeverity(v)
		filter.Severity = &sev
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid startDate")
		}
		filter.From = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid endDate")
		}
		filter.To = &t
	}

	page, err := s.audit.Query(c.Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	logs := make([]auditEntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		logs[i] = auditEntryResponse{
			ID:        e.ID,
			GuildID:   e.GuildID,
			EventType: string(e.EventType),
			Severity:  string(e.Severity),
			ActorID:   e.ActorID,
			TargetID:  e.TargetID,
			Amount:    e.Amount,
			Details:   e.Details,
			Timestamp: e.CreatedAt,
		}
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":        page.Page,
			"limit":       page.Limit,
			"total":       page.Total,
			"total_pages": page.TotalPages,
		},
	})
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
