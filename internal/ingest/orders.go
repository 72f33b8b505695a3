// Package ingest translates the CSV order wire format into common.Order
// values. Order prices are converted from decimal text into ticks here, at
// the I/O boundary, so the matching core never sees a decimal price.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"matchcore/internal/common"
)

var orderColumns = []string{"timestamp", "order_id", "type", "side", "price", "qty"}

// ReadOrders parses a header-plus-rows order CSV. tick is the instrument's
// decimal tick size, used to convert the price column into common.Ticks.
//
// For CANCEL rows the wire format overloads the price column with the
// target order_id (per §6); ReadOrders is the one place that overload is
// resolved into Order.TargetID so nothing downstream needs to know about it.
//
// A malformed row (unparsable int, unknown type/side, missing required
// field) is reported as a MalformedInput error and aborts the read — ingest
// errors never reach the matching core per §7.
func ReadOrders(r io.Reader, tick decimal.Decimal) ([]common.Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var orders []common.Order
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		rowNum++

		o, err := parseRow(row, cols, tick)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, want := range orderColumns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return idx, nil
}

func parseRow(row []string, cols map[string]int, tick decimal.Decimal) (common.Order, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	ts, err := strconv.ParseInt(cell("timestamp"), 10, 64)
	if err != nil {
		return common.Order{}, fmt.Errorf("timestamp: %w", err)
	}
	id, err := strconv.ParseInt(cell("order_id"), 10, 64)
	if err != nil {
		return common.Order{}, fmt.Errorf("order_id: %w", err)
	}
	orderType, err := parseType(cell("type"))
	if err != nil {
		return common.Order{}, err
	}

	o := common.Order{ID: id, Timestamp: ts, Type: orderType}

	if orderType == common.Cancel {
		target, err := strconv.ParseInt(cell("price"), 10, 64)
		if err != nil {
			return common.Order{}, fmt.Errorf("cancel target order_id: %w", err)
		}
		o.TargetID = target
		return o, nil
	}

	side, err := parseSide(cell("side"))
	if err != nil {
		return common.Order{}, err
	}
	o.Side = side

	qtyRaw := cell("qty")
	if qtyRaw != "" {
		qty, err := strconv.ParseUint(qtyRaw, 10, 64)
		if err != nil {
			return common.Order{}, fmt.Errorf("qty: %w", err)
		}
		o.Qty = qty
	}

	priceRaw := cell("price")
	if orderType != common.Market {
		if priceRaw == "" {
			return common.Order{}, fmt.Errorf("%s order missing price", orderType)
		}
		price, err := common.ParseTicks(priceRaw, tick)
		if err != nil {
			return common.Order{}, fmt.Errorf("price: %w", err)
		}
		o.Price = price
	}

	return o, nil
}

func parseType(raw string) (common.OrderType, error) {
	switch raw {
	case "LIMIT":
		return common.Limit, nil
	case "MARKET":
		return common.Market, nil
	case "IOC":
		return common.IOC, nil
	case "CANCEL":
		return common.Cancel, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", raw)
	}
}

func parseSide(raw string) (common.Side, error) {
	switch raw {
	case "BUY":
		return common.Buy, nil
	case "SELL":
		return common.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", raw)
	}
}
