package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/internal/relay/config"
	"futures-relay/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTastytrade struct {
	t            *testing.T
	logins       atomic.Int32
	futuresCalls atomic.Int32
	expireOnce   atomic.Bool

	mu       sync.Mutex
	lastBody map[string]interface{}
	token    string
}

func (f *fakeTastytrade) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(f.t, r)
		if body["login"] != "trader" || body["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"code":"invalid_credentials","message":"Invalid login"}}`)
			return
		}
		assert.Equal(f.t, true, body["remember-me"])
		n := f.logins.Add(1)
		f.mu.Lock()
		f.token = "token-" + string(rune('0'+n))
		token := f.token
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"data":{"session-token":"`+token+`"}}`)
	})
	mux.HandleFunc("/instruments/futures", func(w http.ResponseWriter, r *http.Request) {
		f.futuresCalls.Add(1)
		assert.Equal(f.t, "ES", r.URL.Query().Get("product-code[]"))
		_, _ = io.WriteString(w, `{"data":{"items":[
			{"symbol":"/ESH5","product-code":"ES","active-month":false},
			{"symbol":"/ESZ4","product-code":"ES","active-month":true}
		]}}`)
	})
	mux.HandleFunc("/accounts/5WT0001/positions", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		_, _ = io.WriteString(w, `{"data":{"items":[
			{"symbol":"/ESZ4","instrument-type":"Future","underlying-symbol":"/ES","quantity":1,"quantity-direction":"Long"},
			{"symbol":"/NQZ4","instrument-type":"Future","underlying-symbol":"/NQ","quantity":"2","quantity-direction":"Short"}
		]}}`)
	})
	mux.HandleFunc("/accounts/5WT0001/orders/live", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":11,"order-type":"Stop","status":"Live"},{"id":12,"order-type":"Market","status":"Filled"}]}}`)
	})
	mux.HandleFunc("/accounts/5WT0001/orders", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.record(r)
		_, _ = io.WriteString(w, `{"data":{"order":{"id":21,"order-type":"Market","status":"Routed"}}}`)
	})
	mux.HandleFunc("/accounts/5WT0001/orders/11", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		assert.Equal(f.t, http.MethodDelete, r.Method)
		_, _ = io.WriteString(w, `{"data":{"id":11,"status":"Cancel Requested"}}`)
	})
	mux.HandleFunc("/accounts/5WT0001/complex-orders", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.record(r)
		_, _ = io.WriteString(w, `{"data":{"complex-order":{"id":30,
			"trigger-order":{"id":31,"order-type":"Market","status":"Routed"},
			"orders":[{"id":32,"order-type":"Limit","status":"Contingent"},{"id":33,"order-type":"Stop","status":"Rejected","reject-reason":"stop too close"}]}}}`)
	})
	return mux
}

func (f *fakeTastytrade) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()
	if f.expireOnce.CompareAndSwap(true, false) || r.Header.Get("Authorization") != token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":"token_invalid","message":"session expired"}}`)
		return false
	}
	return true
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func (f *fakeTastytrade) record(r *http.Request) {
	body := decodeBody(f.t, r)
	f.mu.Lock()
	f.lastBody = body
	f.mu.Unlock()
}

func (f *fakeTastytrade) body() map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func newTestTastytrade(t *testing.T) (TastytradeRepository, *fakeTastytrade) {
	t.Helper()
	fake := &fakeTastytrade{t: t}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	repo := NewTastytradeRepository(config.Broker{
		BaseURL:             srv.URL,
		Username:            "trader",
		Password:            "pw",
		AccountNumber:       "5WT0001",
		Timeout:             5 * time.Second,
		MaxRequestPerMinute: 6000,
		InstrumentCacheTTL:  time.Hour,
	}, logger.NewNop())
	return repo, fake
}

func TestTastytradeRepository_RequiresLogin(t *testing.T) {
	repo, _ := newTestTastytrade(t)
	_, err := repo.Positions(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestTastytradeRepository_ActiveContractSymbol(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestTastytrade(t)
	require.NoError(t, repo.Login(ctx))

	symbol, err := repo.ActiveContractSymbol(ctx, "ES")
	require.NoError(t, err)
	assert.Equal(t, "/ESZ4", symbol)

	_, err = repo.ActiveContractSymbol(ctx, "ES")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.futuresCalls.Load())

	require.NoError(t, repo.Login(ctx))
	_, err = repo.ActiveContractSymbol(ctx, "ES")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.futuresCalls.Load())
}

func TestTastytradeRepository_PositionsAndOrders(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestTastytrade(t)
	require.NoError(t, repo.Login(ctx))

	positions, err := repo.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, entity.Long, positions[0].QuantityDirection)
	assert.True(t, positions[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "/ES", positions[0].UnderlyingSymbol)
	assert.Equal(t, entity.Short, positions[1].QuantityDirection)
	assert.True(t, positions[1].Quantity.Equal(decimal.NewFromInt(2)))

	orders, err := repo.WorkingOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "11", orders[0].ID)
	assert.True(t, orders[0].IsCancellableExit())
	assert.False(t, orders[1].IsCancellableExit())

	assert.NoError(t, repo.CancelOrder(ctx, "11"))
}

func TestTastytradeRepository_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestTastytrade(t)
	require.NoError(t, repo.Login(ctx))

	res, err := repo.PlaceOrder(ctx, entity.Order{
		Type:        entity.OrderTypeMarket,
		TimeInForce: entity.TimeInForceDay,
		PriceEffect: entity.Credit,
		Legs:        []entity.Leg{{Symbol: "/ESZ4", Quantity: decimal.NewFromInt(1), Action: entity.ActionSell}},
	})
	require.NoError(t, err)
	assert.Equal(t, "21", res.OrderID)
	body := fake.body()
	assert.Equal(t, entity.SubmitAccepted, res.Status)

	assert.Equal(t, "Market", body["order-type"])
	assert.Equal(t, "Day", body["time-in-force"])
	assert.Equal(t, "Credit", body["price-effect"])
	assert.NotContains(t, body, "price")
	leg := body["legs"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Future", leg["instrument-type"])
	assert.Equal(t, "Sell", leg["action"])
	assert.Equal(t, "/ESZ4", leg["symbol"])
}

func TestTastytradeRepository_PlaceBracketOrder(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestTastytrade(t)
	require.NoError(t, repo.Login(ctx))

	qty := decimal.NewFromInt(1)
	res, err := repo.PlaceBracketOrder(ctx, entity.BracketOrder{
		Trigger: entity.Order{
			Type: entity.OrderTypeMarket, TimeInForce: entity.TimeInForceDay, PriceEffect: entity.Debit,
			Legs: []entity.Leg{{Symbol: "/ESZ4", Quantity: qty, Action: entity.ActionBuy}},
		},
		Exits: []entity.Order{
			{
				Type: entity.OrderTypeLimit, TimeInForce: entity.TimeInForceGTC, PriceEffect: entity.Credit,
				Price: decimal.RequireFromString("5020.25"),
				Legs:  []entity.Leg{{Symbol: "/ESZ4", Quantity: qty, Action: entity.ActionSell}},
			},
			{
				Type: entity.OrderTypeStop, TimeInForce: entity.TimeInForceGTC, PriceEffect: entity.Credit,
				StopTrigger: decimal.RequireFromString("4996.25"),
				Legs:        []entity.Leg{{Symbol: "/ESZ4", Quantity: qty, Action: entity.ActionSell}},
			},
		},
	})
	require.NoError(t, err)

	body := fake.body()
	assert.Equal(t, "31", res.TriggerID)
	assert.Equal(t, []string{"32", "33"}, res.ExitIDs)
	assert.Equal(t, entity.SubmitAccepted, res.Status)
	assert.True(t, res.ExitsRejected)
	assert.Equal(t, "stop too close", res.Reason)

	assert.Equal(t, "OTOCO", body["type"])
	exits := body["orders"].([]interface{})
	require.Len(t, exits, 2)
	assert.Equal(t, "5020.25", exits[0].(map[string]interface{})["price"])
	assert.Equal(t, "4996.25", exits[1].(map[string]interface{})["stop-trigger"])
	assert.NotContains(t, exits[1].(map[string]interface{}), "price")
}

func TestTastytradeRepository_RelogsOnExpiredSession(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestTastytrade(t)
	require.NoError(t, repo.Login(ctx))

	fake.expireOnce.Store(true)
	_, err := repo.Positions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.logins.Load())
}

func TestTastytradeRepository_ErrorEnvelope(t *testing.T) {
	fake := &fakeTastytrade{t: t}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := NewTastytradeRepository(config.Broker{
		BaseURL:             srv.URL,
		Username:            "trader",
		Password:            "wrong",
		AccountNumber:       "5WT0001",
		Timeout:             time.Second,
		MaxRequestPerMinute: 6000,
		InstrumentCacheTTL:  time.Minute,
	}, logger.NewNop())

	err := repo.Login(context.Background())
	assert.ErrorIs(t, err, ErrBrokerRequest)
	assert.Contains(t, err.Error(), "Invalid login")
}
