package service

import (
	"context"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/internal/relay/config"

	"github.com/stretchr/testify/mock"
)

type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) Login(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBroker) ActiveContractSymbol(ctx context.Context, productCode string) (string, error) {
	args := m.Called(ctx, productCode)
	return args.String(0), args.Error(1)
}

func (m *MockBroker) Positions(ctx context.Context) ([]entity.BrokerPosition, error) {
	args := m.Called(ctx)
	positions, _ := args.Get(0).([]entity.BrokerPosition)
	return positions, args.Error(1)
}

func (m *MockBroker) WorkingOrders(ctx context.Context) ([]entity.WorkingOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]entity.WorkingOrder)
	return orders, args.Error(1)
}

func (m *MockBroker) PlaceOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(entity.OrderResult), args.Error(1)
}

func (m *MockBroker) PlaceBracketOrder(ctx context.Context, order entity.BracketOrder) (entity.BracketResult, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(entity.BracketResult), args.Error(1)
}

func (m *MockBroker) CancelOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMessage(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

type MockRelayService struct {
	mock.Mock
}

func (m *MockRelayService) HandleAlert(ctx context.Context, alert Alert) (AlertResult, error) {
	args := m.Called(ctx, alert)
	return args.Get(0).(AlertResult), args.Error(1)
}

func (m *MockRelayService) Status(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockRelayService) Snapshot() Snapshot {
	args := m.Called()
	return args.Get(0).(Snapshot)
}

func (m *MockRelayService) SwitchBias(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRelayService) SwitchLive(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockRelayService) Reconcile(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelayService) RefreshContracts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRelayService) Expire(ctx context.Context) {
	m.Called(ctx)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Record(ctx context.Context, event entity.TradeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func venueTime(t time.Time) time.Time {
	loc, _ := time.LoadLocation("America/New_York")
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func at(hour, minute, second int) time.Time {
	return venueTime(time.Date(2024, time.March, 5, hour, minute, second, 0, time.UTC))
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.Security{PayloadToken: "secret"},
		Mode:     config.Mode{Bullish: true, Live: true},
		Instruments: map[string]config.Instrument{
			"ES": {Ticker: "/ES", Size: 1, Narrow: "2", Medium: "4", Wide: "6.25"},
			"NQ": {Ticker: "/NQ", Size: 2, Narrow: "10", Medium: "20", Wide: "30"},
		},
		Gate: config.Gate{
			Retention:     90 * time.Minute,
			TimeZone:      "America/New_York",
			BlackoutStart: "08:30",
			BlackoutEnd:   "08:35",
		},
		Engine: config.Engine{SettleDelay: time.Second},
		Reconciler: config.Reconciler{
			Interval:            15 * time.Second,
			TicksPerSession:     3,
			SessionCycles:       2,
			ExpiryAlertInterval: 12 * time.Hour,
			ExpiryAlertCount:    3,
		},
	}
}
