package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"paper-trader/money"
)

var _ Lookuper = (*Static)(nil)

// Static serves quotes from a fixed in-memory table.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewStatic() *Static {
	return &Static{quotes: make(map[string]Quote)}
}

// ParseStatic builds a table from entries of the form SYMBOL -> "Name|123.45".
func ParseStatic(entries map[string]string) (*Static, error) {
	s := NewStatic()
	for sym, v := range entries {
		name, price, ok := strings.Cut(v, "|")
		if !ok {
			price, name = name, ""
		}
		c, err := money.ParseAmount(price)
		if err != nil {
			return nil, fmt.Errorf("static quote %s: %w", sym, err)
		}
		if c <= 0 {
			return nil, fmt.Errorf("static quote %s: price must be positive", sym)
		}
		s.Set(sym, name, c)
	}
	return s, nil
}

// Set adds or replaces the quote for symbol.
func (s *Static) Set(symbol, name string, price money.Cents) {
	symbol = strings.ToUpper(symbol)
	if name == "" {
		name = symbol
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = Quote{Symbol: symbol, Name: name, Price: price}
}

func (s *Static) Lookup(ctx context.Context, symbol string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[strings.ToUpper(symbol)]
	if !ok {
		return Quote{}, ErrNotFound
	}
	return q, nil
}
