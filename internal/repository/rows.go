package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/set-night/erpchat/internal/domain"
)

// one turns a single-row scan into a Result. pgx.ErrNoRows becomes the
// notFound message; build runs only after a successful scan.
func one(op string, err error, notFound string, build func() domain.Record) (domain.Result, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewMessage(notFound), nil
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.NewRecord(build()), nil
}

// many collects query rows into a list Result.
func many(op string, rows pgx.Rows, err error, scan pgx.RowToFunc[domain.Record]) (domain.Result, error) {
	if err != nil {
		return domain.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	recs, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return domain.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.NewList(recs), nil
}

// money renders a numeric column as a JSON number.
func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nullMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func day(t time.Time) string {
	return t.Format(time.DateOnly)
}

func nullDay(t *time.Time) any {
	if t == nil {
		return nil
	}
	return day(*t)
}

func stamp(t time.Time) string {
	return t.Format(time.DateTime)
}
