package csvParser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

const (
	columnSymbol    = "symbol"
	columnQuantity  = "quantity"
	columnPrice     = "price"
	columnName      = "name"
	columnAssetType = "assetType"
)

// header synonyms, compared after lowercasing and trimming
var synonyms = map[string][]string{
	columnSymbol:    {"symbol", "ticker"},
	columnQuantity:  {"quantity", "qty", "shares"},
	columnPrice:     {"buyprice", "buy price", "price", "cost"},
	columnName:      {"name", "asset name"},
	columnAssetType: {"assettype", "asset type", "type"},
}

var requiredColumns = []string{columnSymbol, columnQuantity, columnPrice}

// ParseImportFile reads a comma separated file whose first line is a header.
// Rows with a bad symbol, quantity or price are returned as skipped, the rest are parsed.
// A header without a symbol, quantity or price column gives *MissingColumnError.
func ParseImportFile(r io.Reader) (positions []model.ImportedPosition, skipped []model.SkippedRow, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &MissingColumnError{Column: columnSymbol}
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, nil, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped = append(skipped, model.SkippedRow{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			continue
		}

		position, reason := parseRow(record, columns)
		if reason != "" {
			skipped = append(skipped, model.SkippedRow{Line: line, Reason: reason})
			continue
		}

		position.Line = line
		positions = append(positions, position)
	}

	return positions, skipped, nil
}

func resolveColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(synonyms))

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		for column, names := range synonyms {
			if _, found := columns[column]; found {
				continue
			}
			for _, synonym := range names {
				if name == synonym {
					columns[column] = i
					break
				}
			}
		}
	}

	for _, column := range requiredColumns {
		if _, ok := columns[column]; !ok {
			return nil, &MissingColumnError{Column: column}
		}
	}

	return columns, nil
}

func parseRow(record []string, columns map[string]int) (model.ImportedPosition, string) {
	symbol := model.NormalizeSymbol(field(record, columns, columnSymbol))
	if symbol == "" {
		return model.ImportedPosition{}, "empty symbol"
	}

	rawQty := field(record, columns, columnQuantity)
	qty, err := decimal.NewFromString(rawQty)
	if err != nil {
		return model.ImportedPosition{}, fmt.Sprintf("%s: invalid quantity %q", symbol, rawQty)
	}
	if !qty.IsPositive() {
		return model.ImportedPosition{}, fmt.Sprintf("%s: quantity must be positive, got %s", symbol, rawQty)
	}

	rawPrice := field(record, columns, columnPrice)
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return model.ImportedPosition{}, fmt.Sprintf("%s: invalid price %q", symbol, rawPrice)
	}
	if price.IsNegative() {
		return model.ImportedPosition{}, fmt.Sprintf("%s: price is negative, got %s", symbol, rawPrice)
	}

	name := field(record, columns, columnName)
	if name == "" {
		name = symbol
	}

	return model.ImportedPosition{
		Symbol:    symbol,
		Name:      name,
		AssetType: model.NormalizeAssetType(field(record, columns, columnAssetType)),
		Quantity:  qty,
		BuyPrice:  price,
	}, ""
}

// field returns the trimmed value of column, or "" when the column or cell is absent.
func field(record []string, columns map[string]int, column string) string {
	i, ok := columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
