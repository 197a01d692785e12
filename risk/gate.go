package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/peaktrade/ledger/event"
)

// Severity grades how close an order came to a limit.
type Severity string

const (
	SeverityOK      Severity = "OK"
	SeverityWarning Severity = "WARNING"
	SeverityBreach  Severity = "BREACH"
)

var severityRank = map[Severity]int{
	SeverityOK:      0,
	SeverityWarning: 1,
	SeverityBreach:  2,
}

func worse(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Order is the pre-trade view of an order submitted to the gate.
type Order struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Side     event.Side      `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LimitDetail describes one evaluated limit, for observability.
type LimitDetail struct {
	OrderID      string          `json:"order_id"`
	LimitName    string          `json:"limit_name"`
	CurrentValue decimal.Decimal `json:"current_value"`
	LimitValue   decimal.Decimal `json:"limit_value"`
	Ratio        decimal.Decimal `json:"ratio"`
}

// Result is the outcome of one batch check. A breach is ordinary control
// flow, not an error: the caller decides whether to reject or escalate.
// Orders carries the submitted batch, with quantities clipped when the
// clip policy applied.
type Result struct {
	Allowed      bool          `json:"allowed"`
	Severity     Severity      `json:"severity"`
	Reasons      []string      `json:"reasons,omitempty"`
	LimitDetails []LimitDetail `json:"limit_details,omitempty"`
	Orders       []Order       `json:"orders"`
}

// Gate evaluates order batches against static limits. Stateless per
// invocation; safe for concurrent callers.
type Gate struct {
	limits Limits
	log    *zap.Logger
}

// NewGate builds a gate. log may be nil.
func NewGate(limits Limits, log *zap.Logger) (*Gate, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("risk limits: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{limits: limits, log: log}, nil
}

// CheckOrders evaluates each order independently against the configured
// limits. Any breach fails the whole batch unless the clip policy
// reduces the offending quantity to its limit, in which case the batch
// stays allowed at WARNING severity.
func (g *Gate) CheckOrders(orders []Order, prices map[string]decimal.Decimal) Result {
	res := Result{
		Allowed:  true,
		Severity: SeverityOK,
		Orders:   make([]Order, len(orders)),
	}
	copy(res.Orders, orders)

	for i := range res.Orders {
		g.checkUnits(&res, i)
		g.checkNotional(&res, i, prices)
	}
	return res
}

// checkUnits enforces the effective per-order units limit, clipping the
// quantity when the policy allows it.
func (g *Gate) checkUnits(res *Result, i int) {
	order := &res.Orders[i]
	limit, name, ok := g.limits.unitsLimit(order.Symbol)
	if !ok {
		return
	}
	observed := order.Quantity.Abs()
	sev := g.grade(res, order.ID, name, observed, limit)
	if sev != SeverityBreach {
		return
	}

	if g.limits.AllowClipPositionSize {
		clipped := limit
		if order.Quantity.IsNegative() {
			clipped = limit.Neg()
		}
		g.log.Warn("clipping order quantity to limit",
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("limit", name),
			zap.String("observed", observed.String()),
			zap.String("max", limit.String()),
		)
		order.Quantity = clipped
		res.Severity = worse(res.Severity, SeverityWarning)
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s_clipped(max=%s, observed=%s)", name, limit, observed))
		return
	}

	res.Allowed = false
	res.Severity = SeverityBreach
	res.Reasons = append(res.Reasons, fmt.Sprintf("%s_exceeded(max=%s, observed=%s)", name, limit, observed))
}

// checkNotional enforces the quote-currency cap when a current price is
// available for the order's symbol.
func (g *Gate) checkNotional(res *Result, i int, prices map[string]decimal.Decimal) {
	order := &res.Orders[i]
	limit := g.limits.MaxNotionalPerOrder
	if !limit.IsPositive() {
		return
	}
	price, ok := prices[order.Symbol]
	if !ok || !price.IsPositive() {
		return
	}
	observed := order.Quantity.Abs().Mul(price)
	sev := g.grade(res, order.ID, "max_notional_per_order", observed, limit)
	if sev != SeverityBreach {
		return
	}

	if g.limits.AllowClipPositionSize {
		clippedQty := limit.Div(price).RoundDown(8)
		if order.Quantity.IsNegative() {
			clippedQty = clippedQty.Neg()
		}
		g.log.Warn("clipping order quantity to notional limit",
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("observed_notional", observed.String()),
			zap.String("max_notional", limit.String()),
		)
		order.Quantity = clippedQty
		res.Severity = worse(res.Severity, SeverityWarning)
		res.Reasons = append(res.Reasons, fmt.Sprintf("max_notional_per_order_clipped(max=%s, observed=%s)", limit, observed))
		return
	}

	res.Allowed = false
	res.Severity = SeverityBreach
	res.Reasons = append(res.Reasons, fmt.Sprintf("max_notional_per_order_exceeded(max=%s, observed=%s)", limit, observed))
}

// grade records a limit detail and folds its severity into the result.
// Boundaries are inclusive: ratio >= 1 is BREACH, ratio >= warning
// threshold is WARNING.
func (g *Gate) grade(res *Result, orderID, name string, observed, limit decimal.Decimal) Severity {
	ratio := observed.Div(limit)
	sev := SeverityOK
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		sev = SeverityBreach
	case ratio.GreaterThanOrEqual(g.limits.warningRatio()):
		sev = SeverityWarning
	}
	res.LimitDetails = append(res.LimitDetails, LimitDetail{
		OrderID:      orderID,
		LimitName:    name,
		CurrentValue: observed,
		LimitValue:   limit,
		Ratio:        ratio,
	})
	if sev != SeverityBreach {
		res.Severity = worse(res.Severity, sev)
	}
	return sev
}
