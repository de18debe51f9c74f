package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/internal/relay/config"
	"futures-relay/internal/relay/dto"
	"futures-relay/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrBrokerRequest wraps non-2xx responses from the broker.
	ErrBrokerRequest = errors.New("broker request failed")
	// ErrNotAuthenticated is returned when no session token is held.
	ErrNotAuthenticated = errors.New("broker session not authenticated")
)

const complexOrderOTOCO = "OTOCO"

// TastytradeRepository is the Tastytrade REST client bound to one account.
type TastytradeRepository interface {
	Login(ctx context.Context) error
	ActiveContractSymbol(ctx context.Context, productCode string) (string, error)
	Positions(ctx context.Context) ([]entity.BrokerPosition, error)
	WorkingOrders(ctx context.Context) ([]entity.WorkingOrder, error)
	PlaceOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error)
	PlaceBracketOrder(ctx context.Context, order entity.BracketOrder) (entity.BracketResult, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type tastytradeRepository struct {
	cfg            config.Broker
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache

	mu           sync.RWMutex
	sessionToken string
}

// NewTastytradeRepository creates the broker client. Login must be called
// before any account request.
func NewTastytradeRepository(cfg config.Broker, log *logger.Logger) TastytradeRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)
	return &tastytradeRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		inmemoryCache:  cache.New(cfg.InstrumentCacheTTL, 2*cfg.InstrumentCacheTTL),
	}
}

// Login opens a session and drops cached instrument data.
func (r *tastytradeRepository) Login(ctx context.Context) error {
	req := dto.TastytradeLoginRequest{
		Login:      r.cfg.Username,
		Password:   r.cfg.Password,
		RememberMe: true,
	}
	var resp dto.TastytradeResponse[dto.TastytradeSession]
	if err := r.do(ctx, http.MethodPost, "/sessions", req, &resp, false); err != nil {
		return err
	}
	if resp.Data.SessionToken == "" {
		return fmt.Errorf("%w: empty session token", ErrNotAuthenticated)
	}

	r.mu.Lock()
	r.sessionToken = resp.Data.SessionToken
	r.mu.Unlock()
	r.inmemoryCache.Flush()

	r.log.InfoContext(ctx, "Broker session opened", logger.StringField("account", r.cfg.AccountNumber))
	return nil
}

// ActiveContractSymbol returns the active-month contract of a futures product,
// or an empty string when none is flagged active.
func (r *tastytradeRepository) ActiveContractSymbol(ctx context.Context, productCode string) (string, error) {
	futures, err := r.futures(ctx, productCode)
	if err != nil {
		return "", err
	}
	for _, f := range futures {
		if f.ActiveMonth {
			return f.Symbol, nil
		}
	}
	return "", nil
}

func (r *tastytradeRepository) futures(ctx context.Context, productCode string) ([]dto.TastytradeFuture, error) {
	cacheKey := "futures:" + productCode
	if cached, ok := r.inmemoryCache.Get(cacheKey); ok {
		return cached.([]dto.TastytradeFuture), nil
	}

	query := url.Values{}
	query.Add("product-code[]", productCode)
	var resp dto.TastytradeResponse[dto.TastytradeItems[dto.TastytradeFuture]]
	if err := r.do(ctx, http.MethodGet, "/instruments/futures?"+query.Encode(), nil, &resp, true); err != nil {
		return nil, err
	}

	r.inmemoryCache.Set(cacheKey, resp.Data.Items, cache.DefaultExpiration)
	return resp.Data.Items, nil
}

// Positions lists the account's open positions.
func (r *tastytradeRepository) Positions(ctx context.Context) ([]entity.BrokerPosition, error) {
	var resp dto.TastytradeResponse[dto.TastytradeItems[dto.TastytradePosition]]
	if err := r.do(ctx, http.MethodGet, r.accountPath("/positions"), nil, &resp, true); err != nil {
		return nil, err
	}

	positions := make([]entity.BrokerPosition, 0, len(resp.Data.Items))
	for _, p := range resp.Data.Items {
		var dir entity.Direction
		switch p.QuantityDirection {
		case string(entity.Long):
			dir = entity.Long
		case string(entity.Short):
			dir = entity.Short
		}
		positions = append(positions, entity.BrokerPosition{
			Symbol:            p.Symbol,
			UnderlyingSymbol:  p.UnderlyingSymbol,
			InstrumentType:    p.InstrumentType,
			Quantity:          p.Quantity.Abs(),
			QuantityDirection: dir,
		})
	}
	return positions, nil
}

// WorkingOrders lists the account's live orders.
func (r *tastytradeRepository) WorkingOrders(ctx context.Context) ([]entity.WorkingOrder, error) {
	var resp dto.TastytradeResponse[dto.TastytradeItems[dto.TastytradeOrder]]
	if err := r.do(ctx, http.MethodGet, r.accountPath("/orders/live"), nil, &resp, true); err != nil {
		return nil, err
	}

	orders := make([]entity.WorkingOrder, 0, len(resp.Data.Items))
	for _, o := range resp.Data.Items {
		orders = append(orders, entity.WorkingOrder{
			ID:     strconv.FormatInt(o.ID, 10),
			Type:   entity.OrderType(o.OrderType),
			Status: entity.OrderStatus(o.Status),
		})
	}
	return orders, nil
}

// PlaceOrder submits a simple order.
func (r *tastytradeRepository) PlaceOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error) {
	var resp dto.TastytradeResponse[dto.TastytradePlacedOrder]
	if err := r.do(ctx, http.MethodPost, r.accountPath("/orders"), toNewOrder(order), &resp, true); err != nil {
		return entity.OrderResult{}, err
	}

	placed := resp.Data.Order
	result := entity.OrderResult{
		OrderID: strconv.FormatInt(placed.ID, 10),
		Status:  entity.SubmitAccepted,
	}
	if isRejected(placed) {
		result.Status = entity.SubmitRejected
		result.Reason = placed.RejectReason
	}
	return result, nil
}

// PlaceBracketOrder submits an OTOCO order: the trigger followed by
// one-cancels-other exits.
func (r *tastytradeRepository) PlaceBracketOrder(ctx context.Context, order entity.BracketOrder) (entity.BracketResult, error) {
	body := dto.TastytradeNewComplexOrder{
		Type:         complexOrderOTOCO,
		TriggerOrder: toNewOrder(order.Trigger),
	}
	for _, exit := range order.Exits {
		body.Orders = append(body.Orders, toNewOrder(exit))
	}

	var resp dto.TastytradeResponse[dto.TastytradePlacedComplexOrder]
	if err := r.do(ctx, http.MethodPost, r.accountPath("/complex-orders"), body, &resp, true); err != nil {
		return entity.BracketResult{}, err
	}

	placed := resp.Data.ComplexOrder
	result := entity.BracketResult{
		TriggerID: strconv.FormatInt(placed.TriggerOrder.ID, 10),
		Status:    entity.SubmitAccepted,
	}
	if isRejected(placed.TriggerOrder) {
		result.Status = entity.SubmitRejected
		result.Reason = placed.TriggerOrder.RejectReason
		return result, nil
	}
	for _, o := range placed.Orders {
		result.ExitIDs = append(result.ExitIDs, strconv.FormatInt(o.ID, 10))
		if isRejected(o) {
			result.ExitsRejected = true
			result.Reason = o.RejectReason
		}
	}
	return result, nil
}

// CancelOrder cancels a working order.
func (r *tastytradeRepository) CancelOrder(ctx context.Context, orderID string) error {
	return r.do(ctx, http.MethodDelete, r.accountPath("/orders/"+url.PathEscape(orderID)), nil, nil, true)
}

func (r *tastytradeRepository) accountPath(suffix string) string {
	return "/accounts/" + url.PathEscape(r.cfg.AccountNumber) + suffix
}

func isRejected(o dto.TastytradeOrder) bool {
	return o.Status == string(entity.OrderStatusRejected)
}

func toNewOrder(o entity.Order) dto.TastytradeNewOrder {
	out := dto.TastytradeNewOrder{
		TimeInForce: string(o.TimeInForce),
		OrderType:   string(o.Type),
		PriceEffect: string(o.PriceEffect),
	}
	if !o.Price.IsZero() {
		out.Price = decimalPtr(o.Price)
	}
	if !o.StopTrigger.IsZero() {
		out.StopTrigger = decimalPtr(o.StopTrigger)
	}
	for _, leg := range o.Legs {
		out.Legs = append(out.Legs, dto.TastytradeOrderLeg{
			InstrumentType: entity.InstrumentTypeFuture,
			Symbol:         leg.Symbol,
			Quantity:       leg.Quantity,
			Action:         string(leg.Action),
		})
	}
	return out
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// do sends a request and decodes the response into out. Authenticated requests
// that come back 401 are retried once after a fresh login.
func (r *tastytradeRepository) do(ctx context.Context, method, path string, in, out interface{}, authenticated bool) error {
	status, body, err := r.sendRequest(ctx, method, path, in, authenticated)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized && authenticated {
		r.log.InfoContext(ctx, "Broker session expired, logging in again", logger.StringField("path", path))
		if err := r.Login(ctx); err != nil {
			return err
		}
		status, body, err = r.sendRequest(ctx, method, path, in, authenticated)
		if err != nil {
			return err
		}
	}
	if status < 200 || status >= 300 {
		return responseError(method, path, status, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func responseError(method, path string, status int, body []byte) error {
	var envelope dto.TastytradeResponse[struct{}]
	if err := sonic.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		msg := envelope.Error.Message
		for _, nested := range envelope.Error.Errors {
			msg += "; " + nested.Message
		}
		return fmt.Errorf("%w: %s %s: %d %s: %s", ErrBrokerRequest, method, path, status, envelope.Error.Code, msg)
	}
	return fmt.Errorf("%w: %s %s: %d %s", ErrBrokerRequest, method, path, status, strings.TrimSpace(string(body)))
}

func (r *tastytradeRepository) sendRequest(ctx context.Context, method, path string, in interface{}, authenticated bool) (int, []byte, error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("max_request_per_minute", r.cfg.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return 0, nil, err
	}

	var payload io.Reader
	if in != nil {
		b, err := sonic.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(r.cfg.BaseURL, "/")+path, payload)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "futures-relay/1.0")
	if authenticated {
		r.mu.RLock()
		token := r.sessionToken
		r.mu.RUnlock()
		if token == "" {
			return 0, nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to broker API", fields...)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read broker response", fields...)
		return 0, nil, err
	}

	r.log.DebugContext(ctx, "Broker response", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp.StatusCode, body, nil
}
