package service

import (
	"errors"
	"fmt"

	"futures-relay/internal/entity"
	"futures-relay/internal/relay/config"

	"github.com/shopspring/decimal"
)

// ErrUnknownInstrument is returned for tickers that are not configured.
var ErrUnknownInstrument = errors.New("unknown instrument")

// InstrumentSpec is the immutable trading configuration of one instrument.
type InstrumentSpec struct {
	Key         string
	Ticker      string
	ProductCode string
	Size        int64
	Stops       map[entity.StopProfile]decimal.Decimal
}

// BracketPlanner computes bracket legs from configured stop distances.
type BracketPlanner struct {
	specs map[string]InstrumentSpec
}

// NewBracketPlanner builds a planner from the instrument configuration.
func NewBracketPlanner(instruments map[string]config.Instrument) (*BracketPlanner, error) {
	specs := make(map[string]InstrumentSpec, len(instruments))
	for key, inst := range instruments {
		stops, err := inst.StopDistances()
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", key, err)
		}
		specs[key] = InstrumentSpec{
			Key:         key,
			Ticker:      inst.Ticker,
			ProductCode: inst.ProductCode(),
			Size:        inst.Size,
			Stops:       stops,
		}
	}
	return &BracketPlanner{specs: specs}, nil
}

// Spec returns the configuration of an instrument.
func (p *BracketPlanner) Spec(instrument string) (InstrumentSpec, bool) {
	s, ok := p.specs[instrument]
	return s, ok
}

// Plan computes the entry, take-profit and stop prices for an alert.
func (p *BracketPlanner) Plan(instrument string, profile entity.StopProfile, ref decimal.Decimal, dir entity.Direction) (entity.BracketPlan, error) {
	spec, ok := p.specs[instrument]
	if !ok {
		return entity.BracketPlan{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrument)
	}
	multiplier, err := profile.Multiplier()
	if err != nil {
		return entity.BracketPlan{}, err
	}
	stopDistance, ok := spec.Stops[profile]
	if !ok {
		return entity.BracketPlan{}, fmt.Errorf("%w: %q not configured for %s", entity.ErrInvalidStopProfile, string(profile), instrument)
	}
	profitDistance := stopDistance.Mul(decimal.NewFromInt(multiplier))

	plan := entity.BracketPlan{
		Instrument:     instrument,
		Direction:      dir,
		Quantity:       spec.Size,
		ReferencePrice: ref,
		StopDistance:   stopDistance,
		ProfitDistance: profitDistance,
		EntryEffect:    entity.EffectOf(dir.EntryAction()),
		ExitEffect:     entity.EffectOf(dir.ExitAction()),
	}
	switch dir {
	case entity.Long:
		plan.ProfitPrice = ref.Add(profitDistance)
		plan.StopPrice = ref.Sub(stopDistance)
	case entity.Short:
		plan.ProfitPrice = ref.Sub(profitDistance)
		plan.StopPrice = ref.Add(stopDistance)
	default:
		return entity.BracketPlan{}, fmt.Errorf("%w: %q", entity.ErrUnknownDirection, string(dir))
	}
	return plan, nil
}
