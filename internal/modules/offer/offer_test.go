// README: Offer service tests (state machine, pricing, versioning, history).
package offer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"loadapp/internal/config"
	"loadapp/internal/modules/costcalc"
	"loadapp/internal/types"
)

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		DefaultCurrency:      "EUR",
		MinMarginPercent:     5,
		MaxMarginPercent:     30,
		EmptyDrivingBaseCost: 75,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryStore(), testPricing(), nil, zap.NewNop())
}

func testBreakdown(total float64) *costcalc.Response {
	return &costcalc.Response{
		CalculationID: types.NewID(),
		TotalCost:     total,
		Currency:      "EUR",
	}
}

func mustGenerate(t *testing.T, svc *Service, total, margin float64) *Offer {
	t.Helper()
	o, err := svc.Generate(context.Background(), GenerateCommand{
		RouteID:   types.NewID(),
		Margin:    margin,
		Breakdown: testBreakdown(total),
	})
	if err != nil {
		t.Fatalf("generate offer: %v", err)
	}
	return o
}

// TestCanTransition verifies the state machine transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// forward flow
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusSent, true},
		{StatusSent, StatusAccepted, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusExpired, true},
		// invalid: skipping states
		{StatusDraft, StatusSent, false},
		{StatusDraft, StatusAccepted, false},
		{StatusPending, StatusAccepted, false},
		{StatusPending, StatusExpired, false},
		// invalid: backwards
		{StatusPending, StatusDraft, false},
		{StatusSent, StatusPending, false},
		{StatusAccepted, StatusPending, false},
		// invalid: terminal states have no outgoing transitions
		{StatusAccepted, StatusSent, false},
		{StatusRejected, StatusSent, false},
		{StatusExpired, StatusSent, false},
		{StatusAccepted, StatusRejected, false},
		// self-loops are not transitions
		{StatusPending, StatusPending, false},
		{StatusSent, StatusSent, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestGeneratePricing(t *testing.T) {
	cases := []struct {
		name   string
		total  float64
		margin float64
		want   float64
	}{
		{"min margin", 1000, 5, 1050},
		{"mid margin", 1000, 15, 1150},
		{"max margin", 1000, 30, 1300},
		{"rounds half up to cents", 123.45, 10, 135.80},
		{"fractional margin", 1000, 12.5, 1125},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			o := mustGenerate(t, svc, tc.total, tc.margin)
			if o.FinalPrice != tc.want {
				t.Fatalf("final price = %v, want %v", o.FinalPrice, tc.want)
			}
			if o.TotalCost != tc.total {
				t.Fatalf("total cost = %v, want %v", o.TotalCost, tc.total)
			}
			if o.Status != StatusPending {
				t.Fatalf("new offer status = %s, want pending", o.Status)
			}
			if o.Version != 1 {
				t.Fatalf("new offer version = %d, want 1", o.Version)
			}
		})
	}
}

func TestGenerateRejectsMarginOutOfBounds(t *testing.T) {
	svc := newTestService(t)
	for _, margin := range []float64{-1, 0, 4.99, 30.01, 100} {
		_, err := svc.Generate(context.Background(), GenerateCommand{
			RouteID:   types.NewID(),
			Margin:    margin,
			Breakdown: testBreakdown(1000),
		})
		if !errors.Is(err, ErrInvalidMargin) {
			t.Errorf("margin %v: expected ErrInvalidMargin, got %v", margin, err)
		}
	}
}

func TestGenerateRequiresRouteAndBreakdown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateCommand{Margin: 15, Breakdown: testBreakdown(1000)})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("missing route id: expected ErrBadRequest, got %v", err)
	}
	_, err = svc.Generate(ctx, GenerateCommand{RouteID: types.NewID(), Margin: 15})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("missing breakdown: expected ErrBadRequest, got %v", err)
	}
}

func TestStatusFlowHappyPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	sent, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusSent, Version: o.Version, Reason: "sent to customer"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != StatusSent || sent.Version != 2 {
		t.Fatalf("after send: status=%s version=%d, want sent v2", sent.Status, sent.Version)
	}

	accepted, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusAccepted, Version: sent.Version})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != StatusAccepted || accepted.Version != 3 {
		t.Fatalf("after accept: status=%s version=%d, want accepted v3", accepted.Status, accepted.Version)
	}
}

func TestStatusRejectsInvalidTransition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	// pending → accepted skips sent.
	_, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusAccepted, Version: o.Version})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	_, err = svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: "archived", Version: o.Version})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("unknown status: expected ErrBadRequest, got %v", err)
	}

	// The failed attempts must not have bumped the version.
	current, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.Version != 1 || current.Status != StatusPending {
		t.Fatalf("offer mutated by rejected transition: status=%s version=%d", current.Status, current.Version)
	}
}

func TestStatusRejectsStaleVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	if _, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusSent, Version: 1}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Replay with the version read before the send.
	_, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusSent, Version: 1})
	if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrInvalidState) {
		t.Fatalf("stale replay: expected conflict or invalid state, got %v", err)
	}
}

func TestUpdateMarginReprices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	updated, err := svc.UpdateMargin(ctx, MarginCommand{OfferID: o.ID, Margin: 20, Version: o.Version})
	if err != nil {
		t.Fatalf("update margin: %v", err)
	}
	if updated.Margin != 20 || updated.FinalPrice != 1200 {
		t.Fatalf("after margin update: margin=%v price=%v, want 20/1200", updated.Margin, updated.FinalPrice)
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}
}

func TestUpdateMarginFrozenAfterSend(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	sent, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusSent, Version: o.Version})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	_, err = svc.UpdateMargin(ctx, MarginCommand{OfferID: o.ID, Margin: 25, Version: sent.Version})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for sent offer, got %v", err)
	}
}

func TestUpdateMarginStaleVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	if _, err := svc.UpdateMargin(ctx, MarginCommand{OfferID: o.ID, Margin: 20, Version: 1}); err != nil {
		t.Fatalf("first margin update: %v", err)
	}
	_, err := svc.UpdateMargin(ctx, MarginCommand{OfferID: o.ID, Margin: 25, Version: 1})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	o := mustGenerate(t, svc, 1000, 15)

	if _, err := svc.UpdateMargin(ctx, MarginCommand{OfferID: o.ID, Margin: 20, Version: 1}); err != nil {
		t.Fatalf("margin: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: o.ID, To: StatusSent, Version: 2, Reason: "sent"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	records, err := svc.History(ctx, o.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("history length = %d, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Version != i+1 {
			t.Fatalf("record %d version = %d, want %d", i, rec.Version, i+1)
		}
	}
	if records[0].Reason != "created" {
		t.Errorf("first record reason = %q, want created", records[0].Reason)
	}
	if records[1].Margin != 20 || records[1].FinalPrice != 1200 {
		t.Errorf("second record margin/price = %v/%v, want 20/1200", records[1].Margin, records[1].FinalPrice)
	}
	if records[2].Status != StatusSent {
		t.Errorf("third record status = %s, want sent", records[2].Status)
	}
}

func TestHistoryUnknownOffer(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.History(context.Background(), types.NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	routeID := types.NewID()
	var first *Offer
	for i := 0; i < 5; i++ {
		o, err := svc.Generate(ctx, GenerateCommand{RouteID: routeID, Margin: 10, Breakdown: testBreakdown(1000)})
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if first == nil {
			first = o
		}
	}
	if _, err := svc.UpdateStatus(ctx, StatusCommand{OfferID: first.ID, To: StatusSent, Version: 1}); err != nil {
		t.Fatalf("send first: %v", err)
	}

	sent := StatusSent
	offers, total, err := svc.List(ctx, Filter{Status: &sent})
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if total != 1 || len(offers) != 1 || offers[0].ID != first.ID {
		t.Fatalf("sent filter: total=%d len=%d", total, len(offers))
	}

	offers, total, err = svc.List(ctx, Filter{RouteID: &routeID, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 5 || len(offers) != 2 {
		t.Fatalf("page 1: total=%d len=%d, want 5/2", total, len(offers))
	}

	offers, total, err = svc.List(ctx, Filter{RouteID: &routeID, Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if total != 5 || len(offers) != 1 {
		t.Fatalf("page 3: total=%d len=%d, want 5/1", total, len(offers))
	}
}

type staticFunFacts struct{}

func (staticFunFacts) FunFact(ctx context.Context) (string, error) {
	return "trucks move most of Europe's freight", nil
}

func TestGenerateAttachesFunFact(t *testing.T) {
	svc := NewService(NewMemoryStore(), testPricing(), staticFunFacts{}, zap.NewNop())
	o, err := svc.Generate(context.Background(), GenerateCommand{
		RouteID:   types.NewID(),
		Margin:    15,
		Breakdown: testBreakdown(1000),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if o.FunFact == "" {
		t.Fatal("fun fact not attached")
	}
}
