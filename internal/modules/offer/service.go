// README: Offer service: margin-priced quote generation and versioned mutations.
package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loadapp/internal/config"
	"loadapp/internal/modules/costcalc"
	"loadapp/internal/types"
)

var (
	ErrNotFound      = errors.New("offer not found")
	ErrBadRequest    = errors.New("bad offer request")
	ErrInvalidMargin = errors.New("margin out of bounds")
	ErrInvalidState  = errors.New("invalid offer state transition")
	ErrConflict      = errors.New("offer version conflict")
)

// Repository is the persistence contract. UpdateStatus and UpdateMargin are
// conditional writes: they succeed only when the stored version matches.
type Repository interface {
	Create(ctx context.Context, o *Offer) error
	Get(ctx context.Context, id types.ID) (*Offer, error)
	List(ctx context.Context, f Filter) ([]*Offer, int, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	UpdateMargin(ctx context.Context, id types.ID, margin, finalPrice float64, version int) (bool, error)
	AppendVersion(ctx context.Context, rec *VersionRecord) error
	ListVersions(ctx context.Context, id types.ID) ([]*VersionRecord, error)
}

// FunFactProvider supplies the optional one-liner shown on new offers.
type FunFactProvider interface {
	FunFact(ctx context.Context) (string, error)
}

type Filter struct {
	Status   *Status
	RouteID  *types.ID
	Page     int
	PageSize int
}

type Service struct {
	store    Repository
	pricing  config.PricingConfig
	funFacts FunFactProvider
	logger   *zap.Logger
}

func NewService(store Repository, pricing config.PricingConfig, funFacts FunFactProvider, logger *zap.Logger) *Service {
	return &Service{store: store, pricing: pricing, funFacts: funFacts, logger: logger}
}

type GenerateCommand struct {
	RouteID   types.ID
	Margin    float64
	Breakdown *costcalc.Response
}

// Generate assembles a priced offer from a finished cost breakdown.
func (s *Service) Generate(ctx context.Context, cmd GenerateCommand) (*Offer, error) {
	if cmd.RouteID == "" || cmd.Breakdown == nil {
		return nil, fmt.Errorf("%w: route id and cost breakdown are required", ErrBadRequest)
	}
	if err := s.checkMargin(cmd.Margin); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Offer{
		ID:            types.NewID(),
		RouteID:       cmd.RouteID,
		TotalCost:     cmd.Breakdown.TotalCost,
		Margin:        cmd.Margin,
		FinalPrice:    finalPrice(cmd.Breakdown.TotalCost, cmd.Margin),
		Currency:      cmd.Breakdown.Currency,
		CostBreakdown: cmd.Breakdown,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}

	if s.funFacts != nil {
		if fact, err := s.funFacts.FunFact(ctx); err == nil {
			o.FunFact = fact
		}
	}

	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	_ = s.store.AppendVersion(ctx, &VersionRecord{
		OfferID:    o.ID,
		Version:    o.Version,
		Status:     o.Status,
		Margin:     o.Margin,
		FinalPrice: o.FinalPrice,
		Reason:     "created",
		CreatedAt:  now,
	})

	s.logger.Info("offer generated",
		zap.String("offer_id", o.ID.String()),
		zap.String("route_id", o.RouteID.String()),
		zap.Float64("total_cost", o.TotalCost),
		zap.Float64("margin", o.Margin),
		zap.Float64("final_price", o.FinalPrice),
	)
	return o, nil
}

type StatusCommand struct {
	OfferID types.ID
	To      Status
	Version int
	Reason  string
}

// UpdateStatus advances the offer through its state machine. The caller
// supplies the version it read; a stale version fails with ErrConflict.
func (s *Service) UpdateStatus(ctx context.Context, cmd StatusCommand) (*Offer, error) {
	if !ValidStatus(cmd.To) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadRequest, cmd.To)
	}
	o, err := s.store.Get(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, cmd.To) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidState, o.Status, cmd.To)
	}
	if cmd.Version != o.Version {
		return nil, ErrConflict
	}

	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, cmd.To, cmd.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	updated, err := s.store.Get(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}
	_ = s.store.AppendVersion(ctx, &VersionRecord{
		OfferID:    updated.ID,
		Version:    updated.Version,
		Status:     updated.Status,
		Margin:     updated.Margin,
		FinalPrice: updated.FinalPrice,
		Reason:     cmd.Reason,
		CreatedAt:  updated.UpdatedAt,
	})
	return updated, nil
}

type MarginCommand struct {
	OfferID types.ID
	Margin  float64
	Version int
}

// UpdateMargin re-prices an offer before it goes out. Only draft and
// pending offers can be re-priced.
func (s *Service) UpdateMargin(ctx context.Context, cmd MarginCommand) (*Offer, error) {
	if err := s.checkMargin(cmd.Margin); err != nil {
		return nil, err
	}
	o, err := s.store.Get(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDraft && o.Status != StatusPending {
		return nil, fmt.Errorf("%w: margin is frozen once the offer is %s", ErrInvalidState, o.Status)
	}
	if cmd.Version != o.Version {
		return nil, ErrConflict
	}

	price := finalPrice(o.TotalCost, cmd.Margin)
	ok, err := s.store.UpdateMargin(ctx, o.ID, cmd.Margin, price, cmd.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	updated, err := s.store.Get(ctx, cmd.OfferID)
	if err != nil {
		return nil, err
	}
	_ = s.store.AppendVersion(ctx, &VersionRecord{
		OfferID:    updated.ID,
		Version:    updated.Version,
		Status:     updated.Status,
		Margin:     updated.Margin,
		FinalPrice: updated.FinalPrice,
		Reason:     "margin updated",
		CreatedAt:  updated.UpdatedAt,
	})
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Offer, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Offer, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}
	return s.store.List(ctx, f)
}

func (s *Service) History(ctx context.Context, id types.ID) ([]*VersionRecord, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListVersions(ctx, id)
}

func (s *Service) checkMargin(margin float64) error {
	if margin < s.pricing.MinMarginPercent || margin > s.pricing.MaxMarginPercent {
		return fmt.Errorf("%w: %.2f%% outside [%.0f, %.0f]",
			ErrInvalidMargin, margin, s.pricing.MinMarginPercent, s.pricing.MaxMarginPercent)
	}
	return nil
}

// finalPrice = total × (1 + margin/100), rounded half-up to cents.
func finalPrice(totalCost, margin float64) float64 {
	total := decimal.NewFromFloat(totalCost)
	factor := decimal.NewFromFloat(margin).
		Div(decimal.NewFromInt(100)).
		Add(decimal.NewFromInt(1))
	return total.Mul(factor).Round(2).InexactFloat64()
}
