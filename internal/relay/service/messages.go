package service

import (
	"fmt"
	"strings"

	"futures-relay/internal/entity"

	"github.com/shopspring/decimal"
)

// ExpiryMessage is sent repeatedly once the operating horizon is exhausted.
const ExpiryMessage = "Bot is Dead\nRedeploy ASAP"

func signedSize(dir entity.Direction, qty string) string {
	if dir == entity.Long {
		return "+" + qty
	}
	return "-" + qty
}

func entryMessage(plan entity.BracketPlan, ticker string) string {
	return fmt.Sprintf("Entering %s Position\nTicker: %s\nPrice: %s\nSize: %s\nStop Size: %s pts\nProfit Size: %s pts",
		plan.Direction,
		ticker,
		plan.ReferencePrice.String(),
		signedSize(plan.Direction, fmt.Sprintf("%d", plan.Quantity)),
		plan.StopDistance.String(),
		plan.ProfitDistance.String(),
	)
}

// closeMessage reports a market close; the size sign is that of the closing order.
func closeMessage(dir entity.Direction, ticker string, price decimal.Decimal, qty decimal.Decimal) string {
	return fmt.Sprintf("Closing %s Position\nTicker: %s\nPrice: %s\nSize: %s",
		dir,
		ticker,
		price.String(),
		signedSize(dir.Opposite(), qty.String()),
	)
}

func entryErrorMessage(err error) string {
	return fmt.Sprintf("Error placing opening order: %v", err)
}

func closeErrorMessage(err error) string {
	return fmt.Sprintf("Error placing closing order: %v", err)
}

func titleBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func positionLine(p *entity.Position) string {
	action := "BUY"
	if p.Direction == entity.Short {
		action = "SELL"
	}
	return fmt.Sprintf("Ticker: %s, Price: %s, Size: %d, Stop Size: %s, Profit Size: %s, Action: %s",
		p.Instrument, p.EntryPrice.String(), p.Quantity, p.StopDistance.String(), p.ProfitDistance.String(), action)
}

func statusMessage(bias entity.Bias, live bool, position *entity.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bot Bias: %s\nIs Live: %s\nActive Positions:\n", bias, titleBool(live))
	if position == nil {
		b.WriteString("None")
	} else {
		b.WriteString(positionLine(position))
	}
	return b.String()
}

func biasSwitchedMessage(bias entity.Bias) string {
	return fmt.Sprintf("Bot has been switched to %s", bias)
}

func liveSwitchedMessage(live bool) string {
	return fmt.Sprintf("Bot 'Is Live' status has been switched to %s", titleBool(live))
}
