package service

import (
	"fmt"
	"time"

	"futures-relay/internal/relay/config"
	"futures-relay/pkg/utils"
)

// Gate outcomes, also used as metric labels.
const (
	GateBypass       = "bypass"
	GateCorroborated = "corroborated"
	GateNoPartner    = "no_partner_alert"
	GateBlackout     = "blackout"
)

// GateDecision is the result of a corroboration check.
type GateDecision struct {
	Act    bool
	Reason string
}

// CorrelationGate keeps recent alert times per instrument and decides whether an
// alert is corroborated by its partner instrument. It is not safe for concurrent
// use; the relay service owns it under its mutex.
type CorrelationGate struct {
	retention     time.Duration
	loc           *time.Location
	blackoutStart [2]int
	blackoutEnd   [2]int
	partners      map[string]string
	timestamps    map[string][]time.Time
}

// NewCorrelationGate creates a gate for exactly two paired instruments.
func NewCorrelationGate(cfg config.Gate, instruments []string) (*CorrelationGate, error) {
	if len(instruments) != 2 {
		return nil, fmt.Errorf("correlation gate needs two instruments, got %d", len(instruments))
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load gate timezone: %w", err)
	}
	sh, sm, err := utils.ParseClock(cfg.BlackoutStart)
	if err != nil {
		return nil, fmt.Errorf("parse blackout start: %w", err)
	}
	eh, em, err := utils.ParseClock(cfg.BlackoutEnd)
	if err != nil {
		return nil, fmt.Errorf("parse blackout end: %w", err)
	}

	a, b := instruments[0], instruments[1]
	return &CorrelationGate{
		retention:     cfg.Retention,
		loc:           loc,
		blackoutStart: [2]int{sh, sm},
		blackoutEnd:   [2]int{eh, em},
		partners:      map[string]string{a: b, b: a},
		timestamps:    map[string][]time.Time{a: nil, b: nil},
	}, nil
}

// Tracks reports whether the instrument is one of the paired instruments.
func (g *CorrelationGate) Tracks(instrument string) bool {
	_, ok := g.partners[instrument]
	return ok
}

// ShouldAct records the alert and decides whether it is actionable. The alert's
// own timestamp is stored before the partner is consulted, so it can only
// corroborate later alerts.
func (g *CorrelationGate) ShouldAct(instrument string, now time.Time, bypass bool) GateDecision {
	g.timestamps[instrument] = append(g.timestamps[instrument], now)
	g.purge(now)

	if bypass {
		return GateDecision{Act: true, Reason: GateBypass}
	}
	if len(g.timestamps[g.partners[instrument]]) == 0 {
		return GateDecision{Reason: GateNoPartner}
	}
	if g.InBlackout(now) {
		return GateDecision{Reason: GateBlackout}
	}
	return GateDecision{Act: true, Reason: GateCorroborated}
}

// InBlackout reports whether now falls inside the daily blackout window,
// both bounds inclusive, in the venue's time zone.
func (g *CorrelationGate) InBlackout(now time.Time) bool {
	local := now.In(g.loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, g.blackoutStart[0], g.blackoutStart[1], 0, 0, g.loc)
	end := time.Date(y, m, d, g.blackoutEnd[0], g.blackoutEnd[1], 0, 0, g.loc)
	return !local.Before(start) && !local.After(end)
}

// Clear drops the history of both instruments.
func (g *CorrelationGate) Clear() {
	for k := range g.timestamps {
		g.timestamps[k] = nil
	}
}

// Count returns the number of retained alerts for an instrument.
func (g *CorrelationGate) Count(instrument string) int {
	return len(g.timestamps[instrument])
}

// purge keeps only timestamps strictly newer than now minus the retention.
func (g *CorrelationGate) purge(now time.Time) {
	threshold := now.Add(-g.retention)
	for k, ts := range g.timestamps {
		kept := ts[:0]
		for _, t := range ts {
			if t.After(threshold) {
				kept = append(kept, t)
			}
		}
		g.timestamps[k] = kept
	}
}
