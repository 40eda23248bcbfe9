package api

import (
	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/usecase"
	xhttp "TradeFlow/pkg/http"

	"github.com/labstack/echo/v4"
)

// CommandCenterHandler serves the whale, news and fused-analysis views.
// Both feeds fall back to synthetic data internally, so these routes
// never surface provider failures.
type CommandCenterHandler struct {
	fusion *usecase.Fusion
}

func NewCommandCenterHandler(fusion *usecase.Fusion) *CommandCenterHandler {
	return &CommandCenterHandler{fusion: fusion}
}

func (h *CommandCenterHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/command-center")
	g.GET("/whales", h.Whales)
	g.GET("/news", h.News)
	g.GET("/ai-analysis", h.Analysis)
}

type whalesResponse struct {
	Transactions []models.WhaleTransaction `json:"transactions"`
}

type newsResponse struct {
	News []models.NewsItem `json:"news"`
}

func (h *CommandCenterHandler) Whales(c echo.Context) error {
	txs := h.fusion.Whales(c.Request().Context())
	return xhttp.SuccessResponse(c, whalesResponse{Transactions: txs})
}

func (h *CommandCenterHandler) News(c echo.Context) error {
	items := h.fusion.News(c.Request().Context())
	return xhttp.SuccessResponse(c, newsResponse{News: items})
}

func (h *CommandCenterHandler) Analysis(c echo.Context) error {
	result := h.fusion.Analyze(c.Request().Context())
	return xhttp.SuccessResponse(c, result)
}
