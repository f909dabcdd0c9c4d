package matching

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expostand/matchengine/internal/allocation"
	"github.com/expostand/matchengine/internal/lead"
	"github.com/expostand/matchengine/internal/plan"
	"github.com/expostand/matchengine/internal/provider"
	"github.com/expostand/matchengine/internal/realtime"
)

// Handler provides HTTP endpoints for the matching engine.
type Handler struct {
	service        *Service
	providers      provider.Store
	ledger         *allocation.Ledger
	hub            *realtime.Hub // optional; nil disables event streaming
	candidateLimit int
}

// NewHandler creates a new matching handler.
func NewHandler(service *Service, providers provider.Store, ledger *allocation.Ledger, hub *realtime.Hub, candidateLimit int) *Handler {
	if candidateLimit <= 0 {
		candidateLimit = 200
	}
	return &Handler{
		service:        service,
		providers:      providers,
		ledger:         ledger,
		hub:            hub,
		candidateLimit: candidateLimit,
	}
}

// RegisterRoutes sets up the engine's public routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/leads/match", h.MatchLead)
	r.GET("/providers/:id/entitlements", h.GetEntitlements)
}

// RegisterAdminRoutes sets up routes for the directory and billing
// collaborators.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.PUT("/providers/:id", h.UpsertProvider)
	r.POST("/providers/:id/credits/grant", h.GrantCredits)
}

// MatchRequest is the request body for a matching run. Candidates are
// optional: when omitted, the handler assembles them from the provider
// directory filtered by the lead's country.
type MatchRequest struct {
	Lead       lead.Lead `json:"lead" binding:"required"`
	Candidates []string  `json:"candidates,omitempty"` // explicit provider ids
}

// MatchLead handles POST /v1/leads/match
func (h *Handler) MatchLead(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err := req.Lead.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_lead",
			"message": err.Error(),
		})
		return
	}

	candidates, err := h.assembleCandidates(c, &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "directory_unavailable",
			"message": err.Error(),
		})
		return
	}

	results, err := h.service.MatchLead(ctx, &req.Lead, candidates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leadId":  req.Lead.ID,
		"results": BuildViews(results, &req.Lead),
	})
}

func (h *Handler) assembleCandidates(c *gin.Context, req *MatchRequest) ([]*provider.Provider, error) {
	ctx := c.Request.Context()
	if len(req.Candidates) == 0 {
		return h.providers.ListByCountry(ctx, req.Lead.Country, h.candidateLimit)
	}

	candidates := make([]*provider.Provider, 0, len(req.Candidates))
	for _, id := range req.Candidates {
		p, err := h.providers.Get(ctx, id)
		if err == provider.ErrNotFound {
			continue // stale id in the caller's snapshot; skip, don't fail the run
		}
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, p)
	}
	return candidates, nil
}

// GetEntitlements handles GET /v1/providers/:id/entitlements
func (h *Handler) GetEntitlements(c *gin.Context) {
	ent, err := h.service.GetProviderEntitlements(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No builder found with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entitlements": ent})
}

// UpsertProvider handles PUT /v1/providers/:id
func (h *Handler) UpsertProvider(c *gin.Context) {
	var p provider.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	p.ID = c.Param("id")
	if !plan.Valid(p.Plan) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_plan",
			"message": "unknown plan tier: " + string(p.Plan),
		})
		return
	}

	if err := h.providers.Upsert(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": p})
}

// GrantRequest is the request body for a credit grant.
type GrantRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// GrantCredits handles POST /v1/providers/:id/credits/grant
func (h *Handler) GrantCredits(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	id := c.Param("id")
	if err := h.ledger.Grant(c.Request.Context(), id, req.Amount); err != nil {
		if errors.Is(err, allocation.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_amount",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastCreditGrant(map[string]interface{}{
			"providerId":       id,
			"amount":           req.Amount,
			"creditsRemaining": balance,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providerId": id, "creditsRemaining": balance})
}
