package service

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/billimport/domain"
)

const (
	headerPrefix   = "subscriberno"
	maxLineBytes   = 1 << 20
	utf8BOM        = "\ufeff"
	expectedFields = 4
)

// row is a parsed data line. It keeps its provenance so every later stage can
// report errors against the original line.
type row struct {
	lineNumber   int
	raw          string
	subscriberNo string
	year         int
	month        int
	amount       decimal.Decimal
}

func readLines(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, domain.ErrCanceled
		}
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func isHeader(line string) bool {
	line = strings.TrimPrefix(line, utf8BOM)
	return strings.HasPrefix(strings.ToLower(line), headerPrefix)
}

// parseRow validates one data line. It returns the rejection message when the line is unusable.
func parseRow(lineNumber int, raw string) (row, string) {
	parts := strings.Split(raw, ",")
	if len(parts) < expectedFields {
		return row{}, domain.MsgColumnCount
	}

	year, yearErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	month, monthErr := strconv.Atoi(strings.TrimSpace(parts[2]))
	amount, amountErr := parseAmount(parts[3])
	if yearErr != nil || monthErr != nil || amountErr != nil {
		return row{}, domain.MsgInvalidFormat
	}
	if !amount.IsPositive() {
		return row{}, domain.MsgNonPositiveAmount
	}
	if !billdomain.ValidPeriod(year, month) {
		return row{}, domain.MsgPeriodOutOfRange
	}

	return row{
		lineNumber:   lineNumber,
		raw:          raw,
		subscriberNo: strings.TrimSpace(parts[0]),
		year:         year,
		month:        month,
		amount:       amount,
	}, ""
}

func parseAmount(field string) (decimal.Decimal, error) {
	field = strings.TrimSpace(field)
	if strings.ContainsAny(field, "eE") {
		return decimal.Decimal{}, strconv.ErrSyntax
	}
	amount, err := decimal.NewFromString(field)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Round(2), nil
}
