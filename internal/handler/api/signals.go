package api

import (
	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/usecase"
	xhttp "TradeFlow/pkg/http"
	"TradeFlow/pkg/util"

	"github.com/labstack/echo/v4"
)

// StrategyHandler serves the breakout strategy endpoints. Usecase
// failures degrade to WAIT signals, so every route answers 200.
type StrategyHandler struct {
	scanner  *usecase.Scanner
	analyzer *usecase.Analyzer
}

func NewStrategyHandler(scanner *usecase.Scanner, analyzer *usecase.Analyzer) *StrategyHandler {
	return &StrategyHandler{scanner: scanner, analyzer: analyzer}
}

func (h *StrategyHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/strategy")
	g.GET("/scan", h.Scan)
	g.GET("/analyze/:symbol", h.Analyze)
	g.GET("/quick/:symbol", h.Quick)
}

func (h *StrategyHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := util.SplitSymbols(req.Symbols)

	result := h.scanner.Scan(c.Request().Context(), symbols)
	return xhttp.SuccessResponse(c, result)
}

// analysisResponse decorates a signal with strategy metadata and context
// indicators for the single-symbol deep view.
type analysisResponse struct {
	models.Signal
	Strategy     string                    `json:"strategy"`
	Description  string                    `json:"description"`
	WinRate      string                    `json:"winRate"`
	ProfitFactor float64                   `json:"profitFactor"`
	Indicators   *models.IndicatorSnapshot `json:"indicators,omitempty"`
}

func (h *StrategyHandler) Analyze(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sig, snapshot := h.analyzer.AnalyzeDetailed(c.Request().Context(), req.Symbol)
	return xhttp.SuccessResponse(c, analysisResponse{
		Signal:       sig,
		Strategy:     usecase.StrategyName,
		Description:  usecase.AnalyzeDescription,
		WinRate:      usecase.StrategyWinRate,
		ProfitFactor: usecase.StrategyProfit,
		Indicators:   snapshot,
	})
}

func (h *StrategyHandler) Quick(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sig := h.analyzer.Analyze(c.Request().Context(), req.Symbol)
	reasoning := sig.Reasoning
	if len(reasoning) > 3 {
		reasoning = reasoning[:3]
	}
	return xhttp.SuccessResponse(c, models.QuickSignal{
		Asset:       sig.Asset,
		Signal:      sig.Signal,
		Confidence:  sig.Confidence,
		EntryPrice:  sig.EntryPrice,
		StopLoss:    sig.StopLoss,
		ExitTarget1: sig.ExitTarget1,
		ExitTarget2: sig.ExitTarget2,
		Reasoning:   reasoning,
	})
}
