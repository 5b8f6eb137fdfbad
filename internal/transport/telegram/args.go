package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

var errBadArgs = errors.New("bad command arguments")

const (
	addUsage      = "Формат: /add SYMBOL QTY PRICE [TYPE] [NAME...]\nНапример: /add AAPL 10 150.5 STOCK Apple Inc"
	addUnitsUsage = "Формат: /addunits SYMBOL QTY PRICE\nНапример: /addunits AAPL 5 170"
	editUsage     = "Формат: /edit ID SYMBOL QTY PRICE TYPE [NAME...]\nНапример: /edit 3 AAPL 12 140 STOCK Apple"
	deleteUsage   = "Формат: /delete ID"
	historyUsage  = "Формат: /history [DAYS]"
	simulateUsage = "Формат: /simulate BUY|SELL SYMBOL QTY [PRICE] [TYPE]; ...\nНапример: /simulate BUY MSFT 5 400; SELL AAPL 2"
)

// parseAddArgs: SYMBOL QTY PRICE [TYPE] [NAME...]
func parseAddArgs(args []string) (model.Position, error) {
	if len(args) < 3 {
		return model.Position{}, fmt.Errorf("%w: expected at least 3 arguments, got %d", errBadArgs, len(args))
	}

	qty, price, err := parseQtyPrice(args[1], args[2])
	if err != nil {
		return model.Position{}, err
	}

	p := model.Position{
		Symbol:   args[0],
		Quantity: qty,
		BuyPrice: price,
	}
	if len(args) > 3 {
		p.AssetType = model.AssetType(args[3])
	}
	if len(args) > 4 {
		p.Name = strings.Join(args[4:], " ")
	}

	return p, nil
}

// parseTradeArgs: SYMBOL QTY PRICE
func parseTradeArgs(args []string) (symbol string, trade model.Trade, err error) {
	if len(args) != 3 {
		return "", model.Trade{}, fmt.Errorf("%w: expected 3 arguments, got %d", errBadArgs, len(args))
	}

	qty, price, err := parseQtyPrice(args[1], args[2])
	if err != nil {
		return "", model.Trade{}, err
	}

	return args[0], model.Trade{Quantity: qty, Price: price}, nil
}

// parseEditArgs: ID SYMBOL QTY PRICE TYPE [NAME...]
func parseEditArgs(args []string) (id int64, p model.Position, err error) {
	if len(args) < 5 {
		return 0, model.Position{}, fmt.Errorf("%w: expected at least 5 arguments, got %d", errBadArgs, len(args))
	}

	id, err = parseID(args[:1])
	if err != nil {
		return 0, model.Position{}, err
	}

	p, err = parseAddArgs(args[1:])
	if err != nil {
		return 0, model.Position{}, err
	}

	return id, p, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected id", errBadArgs)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadArgs, args[0])
	}
	return id, nil
}

// parseDays returns 0 when days are not given.
func parseDays(args []string) (int, error) {
	if len(args) == 0 || args[0] == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("%w: invalid days %q", errBadArgs, args[0])
	}
	return days, nil
}

func parsePage(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected page", errBadArgs)
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 0 {
		return 0, fmt.Errorf("%w: invalid page %q", errBadArgs, args[0])
	}
	return page, nil
}

// parseSimulateArgs parses trades separated by ";".
// Each trade is ACTION SYMBOL QTY [PRICE] [TYPE], the price may be omitted only for SELL.
func parseSimulateArgs(payload string) ([]model.Change, error) {
	var changes []model.Change

	for i, part := range strings.Split(payload, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}

		action := model.ChangeAction(strings.ToUpper(fields[0]))
		if action != model.ChangeBuy && action != model.ChangeSell {
			return nil, fmt.Errorf("%w: trade %d: unknown action %q", errBadArgs, i+1, fields[0])
		}

		minFields := 4
		if action == model.ChangeSell {
			minFields = 3
		}
		if len(fields) < minFields || len(fields) > 5 {
			return nil, fmt.Errorf("%w: trade %d: wrong number of fields", errBadArgs, i+1)
		}

		qty, err := decimal.NewFromString(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: trade %d: invalid quantity %q", errBadArgs, i+1, fields[2])
		}

		ch := model.Change{Action: action, Symbol: fields[1], Quantity: qty}
		if len(fields) > 3 {
			ch.Price, err = decimal.NewFromString(fields[3])
			if err != nil {
				return nil, fmt.Errorf("%w: trade %d: invalid price %q", errBadArgs, i+1, fields[3])
			}
		}
		if len(fields) > 4 {
			ch.AssetType = model.AssetType(fields[4])
		}

		changes = append(changes, ch)
	}

	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no trades", errBadArgs)
	}

	return changes, nil
}

func parseQtyPrice(rawQty, rawPrice string) (qty, price decimal.Decimal, err error) {
	qty, err = decimal.NewFromString(strings.ReplaceAll(rawQty, ",", "."))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: invalid quantity %q", errBadArgs, rawQty)
	}
	price, err = decimal.NewFromString(strings.ReplaceAll(rawPrice, ",", "."))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: invalid price %q", errBadArgs, rawPrice)
	}
	return qty, price, nil
}
