package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paper-trader/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrThrottled is returned when Alpha Vantage answers with a rate-limit note.
var ErrThrottled = errors.New("quote: provider rate limit reached")

var _ Lookuper = (*AlphaVantage)(nil)

type alphaVantageQuote struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

type alphaVantageSearch struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
	} `json:"bestMatches"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// AlphaVantage looks up quotes from the Alpha Vantage query API.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewAlphaVantage creates a client allowing requestsPerMinute outbound calls.
func NewAlphaVantage(baseURL, apiKey string, requestsPerMinute int, timeout time.Duration, logger *zap.Logger) *AlphaVantage {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AlphaVantage{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
		logger:  logger,
	}
}

// Lookup fetches GLOBAL_QUOTE for the price and SYMBOL_SEARCH for the
// company name. A failed name search falls back to the symbol.
func (a *AlphaVantage) Lookup(ctx context.Context, symbol string) (Quote, error) {
	var gq alphaVantageQuote
	if err := a.get(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &gq); err != nil {
		return Quote{}, err
	}
	if gq.Note != "" || gq.Information != "" {
		return Quote{}, ErrThrottled
	}
	if gq.ErrorMessage != "" || gq.GlobalQuote.Price == "" {
		return Quote{}, ErrNotFound
	}

	d, err := decimal.NewFromString(gq.GlobalQuote.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price %q: %w", gq.GlobalQuote.Price, err)
	}
	price, err := money.FromDecimal(d)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price %q: %w", gq.GlobalQuote.Price, err)
	}
	if price <= 0 {
		return Quote{}, ErrNotFound
	}

	q := Quote{Symbol: strings.ToUpper(gq.GlobalQuote.Symbol), Name: symbol, Price: price}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	name, err := a.companyName(ctx, q.Symbol)
	if err != nil {
		a.logger.Warn("company name lookup failed", zap.String("symbol", q.Symbol), zap.Error(err))
	} else if name != "" {
		q.Name = name
	}
	return q, nil
}

func (a *AlphaVantage) companyName(ctx context.Context, symbol string) (string, error) {
	var res alphaVantageSearch
	if err := a.get(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {symbol}}, &res); err != nil {
		return "", err
	}
	if res.Note != "" || res.Information != "" {
		return "", ErrThrottled
	}
	for _, m := range res.BestMatches {
		if strings.EqualFold(m.Symbol, symbol) {
			return m.Name, nil
		}
	}
	return "", nil
}

func (a *AlphaVantage) get(ctx context.Context, params url.Values, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("quote rate limiter: %w", err)
	}
	params.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch stock data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch stock data: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse stock data: %w", err)
	}
	return nil
}
