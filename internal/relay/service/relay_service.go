package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/internal/relay/config"
	"futures-relay/pkg/common"
	"futures-relay/pkg/logger"
	"futures-relay/pkg/metrics"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	// ErrOrderRejected is returned when the broker rejects a submission.
	ErrOrderRejected = errors.New("order rejected")
	// ErrNoActiveContract is returned when no active-month contract is resolved.
	ErrNoActiveContract = errors.New("no active contract")
	// ErrTransitionInFlight is returned when an entry or close is still pending.
	ErrTransitionInFlight = errors.New("position transition in flight")
	// ErrInvalidPrice is returned for alerts without a positive reference price.
	ErrInvalidPrice = errors.New("invalid alert price")
)

// Alert outcomes, also used as metric labels.
const (
	OutcomeNotLive        = "not_live"
	OutcomeInvalid        = "invalid"
	OutcomeInPosition     = "in_position"
	OutcomeEntered        = "entered"
	OutcomeEntryFailed    = "entry_failed"
	OutcomeFlattened      = "flattened"
	OutcomeClosed         = "closed"
	OutcomeCloseFailed    = "close_failed"
	OutcomeCloseDeferred  = "close_deferred"
	OutcomeCloseInFlight  = "close_in_flight"
	OutcomeNothingToClose = "nothing_to_close"
)

// Phase is the lifecycle state of the position slot.
type Phase string

const (
	PhaseFlat     Phase = "Flat"
	PhaseEntering Phase = "Entering"
	PhaseOpen     Phase = "Open"
	PhaseClosing  Phase = "Closing"
)

// Broker is the brokerage collaborator. Implementations are bound to one account.
type Broker interface {
	Login(ctx context.Context) error
	ActiveContractSymbol(ctx context.Context, productCode string) (string, error)
	Positions(ctx context.Context) ([]entity.BrokerPosition, error)
	WorkingOrders(ctx context.Context) ([]entity.WorkingOrder, error)
	PlaceOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error)
	PlaceBracketOrder(ctx context.Context, order entity.BracketOrder) (entity.BracketResult, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Notifier sends operator notifications.
type Notifier interface {
	SendMessage(text string) error
}

// Alert is a parsed webhook alert.
type Alert struct {
	Ticker    string
	AlertType string
	StopType  string
	Price     decimal.Decimal
	Bypass    bool
}

// AlertResult describes what the relay did with an alert.
type AlertResult struct {
	Instrument string
	Outcome    string
}

// Snapshot is a consistent copy of the relay state.
type Snapshot struct {
	Bias     entity.Bias
	Live     bool
	Phase    Phase
	Position *entity.Position
	Symbols  map[string]string
}

// RelayService defines the decision and state engine of the relay.
type RelayService interface {
	HandleAlert(ctx context.Context, alert Alert) (AlertResult, error)
	Status(ctx context.Context) string
	Snapshot() Snapshot
	SwitchBias(ctx context.Context) (string, error)
	SwitchLive(ctx context.Context) string
	Reconcile(ctx context.Context) (bool, error)
	RefreshContracts(ctx context.Context) error
	Expire(ctx context.Context)
}

// Option customises a relay service.
type Option func(*relayService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *relayService) { s.now = now }
}

// WithSleep overrides how the settle delay is waited for.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(s *relayService) { s.sleep = sleep }
}

type relayService struct {
	mu sync.Mutex

	gate     *CorrelationGate
	planner  *BracketPlanner
	broker   Broker
	notifier Notifier
	journal  TradeJournal
	log      *logger.Logger

	instruments []string
	settleDelay time.Duration
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration)

	bias          entity.Bias
	live          bool
	phase         Phase
	position      *entity.Position
	deferredClose bool
	deferredPrice decimal.Decimal
	symbols       map[string]string
}

// NewRelayService creates the relay engine from configuration and collaborators.
func NewRelayService(cfg *config.Config, broker Broker, notifier Notifier, journal TradeJournal, log *logger.Logger, opts ...Option) (RelayService, error) {
	instruments := cfg.InstrumentKeys()
	gate, err := NewCorrelationGate(cfg.Gate, instruments)
	if err != nil {
		return nil, err
	}
	planner, err := NewBracketPlanner(cfg.Instruments)
	if err != nil {
		return nil, err
	}

	s := &relayService{
		gate:        gate,
		planner:     planner,
		broker:      broker,
		notifier:    notifier,
		journal:     journal,
		log:         log,
		instruments: instruments,
		settleDelay: cfg.Engine.SettleDelay,
		now:         time.Now,
		sleep:       sleepContext,
		bias:        entity.BiasFromBool(cfg.Mode.Bullish),
		live:        cfg.Mode.Live,
		phase:       PhaseFlat,
		symbols:     make(map[string]string, len(instruments)),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.LiveMode.Set(metrics.BoolGauge(s.live))
	metrics.PositionOpen.Set(0)
	return s, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// normalizeTicker maps "/es" or "es" to the instrument key "ES".
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ticker), "/"))
}

// HandleAlert runs one alert through the gate and the position lifecycle.
// Alerts aligned with the bias are entry candidates; opposing alerts close the
// tracked position.
func (s *relayService) HandleAlert(ctx context.Context, alert Alert) (AlertResult, error) {
	ctx = context.WithoutCancel(ctx)
	instrument := normalizeTicker(alert.Ticker)
	result := AlertResult{Instrument: instrument}

	fields := []zap.Field{
		logger.StringField("instrument", instrument),
		logger.StringField("alert_type", alert.AlertType),
		logger.StringField("stop_type", alert.StopType),
		logger.StringField("price", alert.Price.String()),
		logger.BoolField("bypass", alert.Bypass),
	}

	dir, err := entity.ParseDirection(alert.AlertType)
	if err == nil && !s.gate.Tracks(instrument) {
		err = fmt.Errorf("%w: %q", ErrUnknownInstrument, alert.Ticker)
	}
	if err == nil && !alert.Price.IsPositive() {
		err = fmt.Errorf("%w: %s", ErrInvalidPrice, alert.Price)
	}
	if err != nil {
		result.Outcome = OutcomeInvalid
		s.observe(result)
		s.log.ErrorContext(ctx, "Alert dropped", append(fields, logger.ErrorField(err))...)
		return result, err
	}

	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		result.Outcome = OutcomeNotLive
		s.observe(result)
		s.log.InfoContext(ctx, "Alert ignored, live trading disabled", fields...)
		return result, nil
	}

	biasDir := s.bias.Direction()
	if dir != biasDir {
		return s.handleOpposingAlert(ctx, result, biasDir, alert.Price, fields)
	}

	profile := entity.StopProfile(alert.StopType)
	if _, err := profile.Multiplier(); err != nil {
		s.mu.Unlock()
		result.Outcome = OutcomeInvalid
		s.observe(result)
		s.log.ErrorContext(ctx, "Alert dropped", append(fields, logger.ErrorField(err))...)
		return result, err
	}

	decision := s.gate.ShouldAct(instrument, s.now(), alert.Bypass)
	if !decision.Act {
		s.mu.Unlock()
		result.Outcome = decision.Reason
		s.observe(result)
		s.log.InfoContext(ctx, "Alert not actionable", append(fields, logger.StringField("reason", decision.Reason))...)
		return result, nil
	}
	if s.phase != PhaseFlat {
		phase := s.phase
		s.mu.Unlock()
		result.Outcome = OutcomeInPosition
		s.observe(result)
		s.log.InfoContext(ctx, "Alert skipped, position slot busy", append(fields, logger.StringField("phase", string(phase)))...)
		return result, nil
	}

	plan, err := s.planner.Plan(instrument, profile, alert.Price, dir)
	if err != nil {
		s.mu.Unlock()
		result.Outcome = OutcomeInvalid
		s.observe(result)
		s.log.ErrorContext(ctx, "Failed to plan bracket", append(fields, logger.ErrorField(err))...)
		return result, err
	}
	symbol := s.symbols[instrument]
	s.phase = PhaseEntering
	s.mu.Unlock()

	result.Outcome = s.enter(ctx, plan, symbol)
	s.observe(result)
	return result, nil
}

// handleOpposingAlert is called with the lock held and releases it.
func (s *relayService) handleOpposingAlert(ctx context.Context, result AlertResult, biasDir entity.Direction, price decimal.Decimal, fields []zap.Field) (AlertResult, error) {
	switch s.phase {
	case PhaseFlat:
		s.mu.Unlock()
		result.Outcome = OutcomeNothingToClose
	case PhaseEntering:
		s.deferredClose = true
		s.deferredPrice = price
		s.mu.Unlock()
		result.Outcome = OutcomeCloseDeferred
		s.log.InfoContext(ctx, "Close deferred until entry commits", fields...)
	case PhaseClosing:
		s.mu.Unlock()
		result.Outcome = OutcomeCloseInFlight
	case PhaseOpen:
		s.phase = PhaseClosing
		s.mu.Unlock()
		if s.closeTransition(ctx, biasDir, price, PhaseOpen) {
			result.Outcome = OutcomeClosed
		} else {
			result.Outcome = OutcomeCloseFailed
		}
	}
	s.observe(result)
	return result, nil
}

// enter submits the bracket for a slot already marked Entering and commits
// the result.
func (s *relayService) enter(ctx context.Context, plan entity.BracketPlan, symbol string) string {
	fields := []zap.Field{
		logger.StringField("instrument", plan.Instrument),
		logger.StringField("symbol", symbol),
		logger.StringField("direction", string(plan.Direction)),
		logger.Field("quantity", plan.Quantity),
		logger.StringField("reference_price", plan.ReferencePrice.String()),
		logger.StringField("profit_price", plan.ProfitPrice.String()),
		logger.StringField("stop_price", plan.StopPrice.String()),
	}

	var res entity.BracketResult
	var err error
	if symbol == "" {
		err = fmt.Errorf("%w for %s", ErrNoActiveContract, plan.Instrument)
	} else {
		res, err = s.broker.PlaceBracketOrder(ctx, plan.Order(symbol))
		if err == nil && res.Status == entity.SubmitRejected {
			err = fmt.Errorf("%w: %s", ErrOrderRejected, res.Reason)
		}
	}

	event := newTradeEvent(common.TradeEventEntry, s.now())
	event.Instrument, event.Symbol, event.Direction = plan.Instrument, symbol, string(plan.Direction)
	event.Quantity, event.Price = plan.Quantity, plan.ReferencePrice
	event.Data = eventData(map[string]interface{}{
		"trigger_id":   res.TriggerID,
		"exit_ids":     res.ExitIDs,
		"profit_price": plan.ProfitPrice.String(),
		"stop_price":   plan.StopPrice.String(),
	})

	if err != nil {
		metrics.Orders.WithLabelValues("entry", "rejected").Inc()
		s.log.ErrorContext(ctx, "Failed to place opening order", append(fields, logger.ErrorField(err))...)
		s.notify(ctx, entryErrorMessage(err))
		s.mu.Lock()
		s.phase = PhaseFlat
		s.deferredClose = false
		s.mu.Unlock()
		event.Message = err.Error()
		s.record(ctx, event)
		return OutcomeEntryFailed
	}
	metrics.Orders.WithLabelValues("entry", "accepted").Inc()

	if res.ExitsRejected {
		return s.flatten(ctx, plan, symbol, res, event, fields)
	}

	s.log.InfoContext(ctx, "Opening order placed", append(fields, logger.StringField("order_id", res.TriggerID))...)
	s.notify(ctx, entryMessage(plan, plan.Instrument))
	s.sleep(ctx, s.settleDelay)

	s.mu.Lock()
	s.gate.Clear()
	s.position = plan.Position(symbol, s.now())
	s.phase = PhaseOpen
	deferred, deferredPrice := s.deferredClose, s.deferredPrice
	s.deferredClose = false
	if deferred {
		s.phase = PhaseClosing
	}
	s.mu.Unlock()
	metrics.PositionOpen.Set(1)

	event.Success = true
	s.record(ctx, event)

	if deferred {
		s.log.InfoContext(ctx, "Running deferred close", fields...)
		s.closeTransition(ctx, plan.Direction, deferredPrice, PhaseOpen)
	}
	return OutcomeEntered
}

// flatten handles an accepted entry whose protective legs were rejected. The
// position is not tracked unless flattening fails, in which case it is tracked
// so the reconciler can resolve it against the broker.
func (s *relayService) flatten(ctx context.Context, plan entity.BracketPlan, symbol string, res entity.BracketResult, event entity.TradeEvent, fields []zap.Field) string {
	s.log.ErrorContext(ctx, "Protective orders rejected, flattening", append(fields, logger.StringField("reason", res.Reason))...)
	s.notify(ctx, entryErrorMessage(fmt.Errorf("%w: protective orders: %s", ErrOrderRejected, res.Reason)))
	s.sleep(ctx, s.settleDelay)

	err := s.closePositions(ctx, plan.Direction, plan.ReferencePrice)

	s.mu.Lock()
	s.gate.Clear()
	s.deferredClose = false
	if err != nil {
		s.position = plan.Position(symbol, s.now())
		s.phase = PhaseOpen
	} else {
		s.position = nil
		s.phase = PhaseFlat
	}
	s.mu.Unlock()
	metrics.PositionOpen.Set(metrics.BoolGauge(err != nil))

	event.Kind = common.TradeEventFlatten
	event.Success = err == nil
	if err != nil {
		event.Message = err.Error()
	}
	s.record(ctx, event)
	return OutcomeFlattened
}

// closeTransition runs a close for a slot already marked Closing and commits
// the outcome. On failure the slot returns to the given phase.
func (s *relayService) closeTransition(ctx context.Context, dir entity.Direction, price decimal.Decimal, onFailure Phase) bool {
	err := s.closePositions(ctx, dir, price)
	if err == nil {
		s.sleep(ctx, s.settleDelay)
	}

	s.mu.Lock()
	if err != nil {
		s.phase = onFailure
	} else {
		s.position = nil
		s.phase = PhaseFlat
	}
	open := s.position != nil
	s.mu.Unlock()
	metrics.PositionOpen.Set(metrics.BoolGauge(open))
	return err == nil
}

// closePositions covers every broker futures position held in the given
// direction. Working exit orders are cancelled first. Failures are notified and
// returned; the caller keeps its local state in that case.
func (s *relayService) closePositions(ctx context.Context, dir entity.Direction, price decimal.Decimal) error {
	positions, err := s.broker.Positions(ctx)
	if err != nil {
		s.closeFailed(ctx, dir, err)
		return err
	}

	var matches []entity.BrokerPosition
	for _, p := range positions {
		if p.QuantityDirection == dir && strings.EqualFold(p.InstrumentType, entity.InstrumentTypeFuture) && p.Quantity.IsPositive() {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		s.log.InfoContext(ctx, "No broker positions to close", logger.StringField("direction", string(dir)))
		return nil
	}

	if err := s.cancelWorkingExits(ctx); err != nil {
		s.closeFailed(ctx, dir, err)
		return err
	}

	for _, p := range matches {
		action := dir.ExitAction()
		order := entity.Order{
			Type:        entity.OrderTypeMarket,
			TimeInForce: entity.TimeInForceDay,
			PriceEffect: entity.EffectOf(action),
			Legs:        []entity.Leg{{Symbol: p.Symbol, Quantity: p.Quantity, Action: action}},
		}
		res, err := s.broker.PlaceOrder(ctx, order)
		if err == nil && res.Status == entity.SubmitRejected {
			err = fmt.Errorf("%w: %s", ErrOrderRejected, res.Reason)
		}

		event := newTradeEvent(common.TradeEventClose, s.now())
		event.Instrument, event.Symbol, event.Direction = p.UnderlyingSymbol, p.Symbol, string(dir)
		event.Quantity, event.Price = p.Quantity.IntPart(), price
		event.Data = eventData(map[string]interface{}{"order_id": res.OrderID})

		if err != nil {
			metrics.Orders.WithLabelValues("close", "rejected").Inc()
			event.Message = err.Error()
			s.record(ctx, event)
			s.closeFailed(ctx, dir, err)
			return err
		}
		metrics.Orders.WithLabelValues("close", "accepted").Inc()
		event.Success = true
		s.record(ctx, event)

		s.log.InfoContext(ctx, "Closing order placed",
			logger.StringField("symbol", p.Symbol),
			logger.StringField("direction", string(dir)),
			logger.StringField("quantity", p.Quantity.String()),
			logger.StringField("order_id", res.OrderID),
		)
		s.notify(ctx, closeMessage(dir, p.UnderlyingSymbol, price, p.Quantity))
	}
	return nil
}

func (s *relayService) closeFailed(ctx context.Context, dir entity.Direction, err error) {
	s.log.ErrorContext(ctx, "Failed to place closing order", logger.StringField("direction", string(dir)), logger.ErrorField(err))
	s.notify(ctx, closeErrorMessage(err))
}

// cancelWorkingExits cancels live stop and limit orders on the account.
func (s *relayService) cancelWorkingExits(ctx context.Context) error {
	orders, err := s.broker.WorkingOrders(ctx)
	if err != nil {
		return fmt.Errorf("list working orders: %w", err)
	}
	for _, o := range orders {
		if !o.IsCancellableExit() {
			continue
		}
		if err := s.broker.CancelOrder(ctx, o.ID); err != nil {
			metrics.Orders.WithLabelValues("cancel", "rejected").Inc()
			return fmt.Errorf("cancel order %s: %w", o.ID, err)
		}
		metrics.Orders.WithLabelValues("cancel", "accepted").Inc()
		s.log.InfoContext(ctx, "Cancelled working order", logger.StringField("order_id", o.ID), logger.StringField("type", string(o.Type)))
	}
	return nil
}

// Status renders the operator status text.
func (s *relayService) Status(ctx context.Context) string {
	snap := s.Snapshot()
	return statusMessage(snap.Bias, snap.Live, snap.Position)
}

// Snapshot returns a copy of the current state.
func (s *relayService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Bias:    s.bias,
		Live:    s.live,
		Phase:   s.phase,
		Symbols: make(map[string]string, len(s.symbols)),
	}
	if s.position != nil {
		p := *s.position
		snap.Position = &p
	}
	for k, v := range s.symbols {
		snap.Symbols[k] = v
	}
	return snap
}

// SwitchBias force-closes positions in the current bias direction, clears the
// alert history and flips the bias. The flip happens even if the close fails.
func (s *relayService) SwitchBias(ctx context.Context) (string, error) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.phase == PhaseEntering || s.phase == PhaseClosing {
		phase := s.phase
		s.mu.Unlock()
		s.log.InfoContext(ctx, "Bias switch refused", logger.StringField("phase", string(phase)))
		return "", ErrTransitionInFlight
	}
	dir := s.bias.Direction()
	if s.live {
		restore := s.phase
		s.phase = PhaseClosing
		s.mu.Unlock()
		s.closeTransition(ctx, dir, decimal.Zero, restore)
		s.mu.Lock()
	}
	s.gate.Clear()
	s.bias = s.bias.Flip()
	bias := s.bias
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Bias switched", logger.StringField("bias", string(bias)))
	event := newTradeEvent(common.TradeEventBias, s.now())
	event.Success = true
	event.Message = string(bias)
	s.record(ctx, event)
	return biasSwitchedMessage(bias), nil
}

// SwitchLive toggles live trading. The tracked position is left untouched.
func (s *relayService) SwitchLive(ctx context.Context) string {
	s.mu.Lock()
	s.live = !s.live
	live := s.live
	s.mu.Unlock()

	metrics.LiveMode.Set(metrics.BoolGauge(live))
	s.log.InfoContext(ctx, "Live status switched", logger.BoolField("live", live))
	event := newTradeEvent(common.TradeEventLive, s.now())
	event.Success = true
	event.Message = titleBool(live)
	s.record(ctx, event)
	return liveSwitchedMessage(live)
}

// Reconcile clears the tracked position when the broker reports no positions at
// all, after cancelling the remaining exit orders. It returns true when a
// position was cleared.
func (s *relayService) Reconcile(ctx context.Context) (bool, error) {
	s.mu.Lock()
	tracked := s.position
	if tracked == nil || s.phase != PhaseOpen || !s.live {
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	positions, err := s.broker.Positions(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch broker positions", logger.ErrorField(err))
		return false, err
	}
	if len(positions) > 0 {
		return false, nil
	}

	s.mu.Lock()
	if s.position != tracked || s.phase != PhaseOpen {
		s.mu.Unlock()
		return false, nil
	}
	s.phase = PhaseClosing
	s.mu.Unlock()

	if err := s.cancelWorkingExits(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to cancel working orders", logger.ErrorField(err))
		s.mu.Lock()
		s.phase = PhaseOpen
		s.mu.Unlock()
		return false, err
	}
	s.sleep(ctx, s.settleDelay)

	s.mu.Lock()
	s.position = nil
	s.phase = PhaseFlat
	s.mu.Unlock()

	metrics.ReconcileClears.Inc()
	metrics.PositionOpen.Set(0)
	s.log.InfoContext(ctx, "Position closed at broker, local position cleared",
		logger.StringField("instrument", tracked.Instrument),
		logger.StringField("symbol", tracked.Symbol),
	)
	event := newTradeEvent(common.TradeEventReconcile, s.now())
	event.Instrument, event.Symbol, event.Direction = tracked.Instrument, tracked.Symbol, string(tracked.Direction)
	event.Quantity, event.Price = tracked.Quantity, tracked.EntryPrice
	event.Success = true
	s.record(ctx, event)
	return true, nil
}

// RefreshContracts renews the broker session and re-resolves the active-month
// contract of every instrument. Symbols that fail to resolve keep their
// previous value.
func (s *relayService) RefreshContracts(ctx context.Context) error {
	if err := s.broker.Login(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to refresh broker session", logger.ErrorField(err))
		return fmt.Errorf("broker login: %w", err)
	}

	var errs []error
	for _, key := range s.instruments {
		spec, _ := s.planner.Spec(key)
		productCode := spec.ProductCode
		symbol, err := s.broker.ActiveContractSymbol(ctx, productCode)
		if err == nil && symbol == "" {
			err = fmt.Errorf("%w for %s", ErrNoActiveContract, productCode)
		}
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to resolve active contract", logger.StringField("instrument", key), logger.ErrorField(err))
			errs = append(errs, err)
			continue
		}

		s.mu.Lock()
		s.symbols[key] = symbol
		s.mu.Unlock()

		s.log.InfoContext(ctx, "Instrument configured",
			logger.StringField("instrument", key),
			logger.StringField("ticker", spec.Ticker),
			logger.StringField("contract", symbol),
			logger.Field("size", spec.Size),
			logger.StringField("narrow", spec.Stops[entity.Narrow].String()),
			logger.StringField("medium", spec.Stops[entity.Medium].String()),
			logger.StringField("wide", spec.Stops[entity.Wide].String()),
		)
	}
	return errors.Join(errs...)
}

// Expire permanently disables live trading at the end of the operating horizon.
func (s *relayService) Expire(ctx context.Context) {
	s.mu.Lock()
	s.live = false
	s.mu.Unlock()

	metrics.LiveMode.Set(0)
	s.log.InfoContext(ctx, "Operating horizon reached, live trading disabled")
	event := newTradeEvent(common.TradeEventLive, s.now())
	event.Success = true
	event.Message = "expired"
	s.record(ctx, event)
}

func (s *relayService) observe(result AlertResult) {
	metrics.Alerts.WithLabelValues(result.Instrument, result.Outcome).Inc()
}

func (s *relayService) notify(ctx context.Context, text string) {
	if err := s.notifier.SendMessage(text); err != nil {
		s.log.ErrorContext(ctx, "Failed to send notification", logger.ErrorField(err))
	}
}

func (s *relayService) record(ctx context.Context, event entity.TradeEvent) {
	if s.journal == nil {
		return
	}
	_ = s.journal.Record(ctx, event)
}

func eventData(data map[string]interface{}) datatypes.JSON {
	b, err := sonic.Marshal(data)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}
