// README: Offer aggregate, status definitions, and version history records.
package offer

import (
	"time"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/types"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

type Offer struct {
	ID            types.ID          `json:"id"`
	RouteID       types.ID          `json:"route_id"`
	TotalCost     float64           `json:"total_cost"`
	Margin        float64           `json:"margin"`
	FinalPrice    float64           `json:"final_price"`
	Currency      string            `json:"currency"`
	CostBreakdown *costcalc.Response `json:"cost_breakdown"`
	FunFact       string            `json:"fun_fact,omitempty"`
	Status        Status            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Version       int               `json:"version"`
}

// VersionRecord is one entry of the append-only offer history.
type VersionRecord struct {
	OfferID    types.ID  `json:"offer_id"`
	Version    int       `json:"version"`
	Status     Status    `json:"status"`
	Margin     float64   `json:"margin"`
	FinalPrice float64   `json:"final_price"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllowedTransitions represents the offer state flow (diagram) as code.
// Accepted, rejected, and expired are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusDraft:   {StatusPending},
	StatusPending: {StatusSent},
	StatusSent:    {StatusAccepted, StatusRejected, StatusExpired},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPending, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}
