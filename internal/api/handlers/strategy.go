package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-savings/internal/api/models"
	"battery-savings/internal/strategy"
)

var intervalsParam = models.ParameterInfo{
	Name:        "intervals",
	Type:        "intervals",
	Description: "Ordered list of {start, end, action} windows (HH:MM, half-open, first match wins). Uncovered times are idle.",
}

var strategyInfo = map[strategy.Kind]models.StrategyInfo{
	strategy.KindSmartShift: {
		Description: "Follows the user's schedule: charge from grid, self-consume, discharge to grid or idle per window.",
		Parameters:  []models.ParameterInfo{intervalsParam},
	},
	strategy.KindEco: {
		Description: "Stores solar surplus and covers demand from the battery. Never exports. Ignores intervals.",
		Parameters:  []models.ParameterInfo{},
	},
	strategy.KindPeak: {
		Description: "Only honours charge and discharge windows. Charging never exports solar; discharging exports at peak.",
		Parameters:  []models.ParameterInfo{intervalsParam},
	},
}

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := make([]models.StrategyInfo, 0, len(strategyInfo))
	for _, k := range strategy.Kinds() {
		info := strategyInfo[k]
		info.Name = k.String()
		strategies = append(strategies, info)
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
