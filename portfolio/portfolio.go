// Package portfolio values a user's holdings at current prices.
package portfolio

import (
	"context"
	"fmt"

	"paper-trader/ledger"
	"paper-trader/money"
	"paper-trader/quote"
)

type Holding struct {
	Symbol string
	Name   string
	Shares int64
	Price  money.Cents
	Value  money.Cents
}

type Summary struct {
	Holdings []Holding
	Cash     money.Cents
	Total    money.Cents
}

type Service struct {
	ledger *ledger.Service
	quotes quote.Lookuper
}

func NewService(l *ledger.Service, quotes quote.Lookuper) *Service {
	return &Service{ledger: l, quotes: quotes}
}

// Summarize prices every open position with a fresh quote. If any lookup
// fails the whole summary fails; stale prices are never shown.
func (s *Service) Summarize(ctx context.Context, userID uint) (*Summary, error) {
	cash, err := s.ledger.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}
	positions, err := s.ledger.Positions(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Cash: cash, Total: cash, Holdings: make([]Holding, 0, len(positions))}
	for _, p := range positions {
		q, err := s.quotes.Lookup(ctx, p.Symbol)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", p.Symbol, err)
		}
		value, err := q.Price.Times(p.Shares)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", p.Symbol, err)
		}
		name := p.Name
		if q.Name != "" {
			name = q.Name
		}
		sum.Holdings = append(sum.Holdings, Holding{
			Symbol: p.Symbol,
			Name:   name,
			Shares: p.Shares,
			Price:  q.Price,
			Value:  value,
		})
		sum.Total += value
	}
	return sum, nil
}
