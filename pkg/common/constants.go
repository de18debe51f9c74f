package common

const (
	RedisStreamTradeEvents = "relay.trade.events"

	TradeEventEntry     = "entry"
	TradeEventClose     = "close"
	TradeEventReconcile = "reconcile"
	TradeEventFlatten   = "flatten"
	TradeEventBias      = "bias_switch"
	TradeEventLive      = "live_switch"
)
