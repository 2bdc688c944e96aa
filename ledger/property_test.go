package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"paper-trader/ledger"
	"paper-trader/models"
	"paper-trader/money"
	"paper-trader/quote"
	"paper-trader/testutils"

	"go.uber.org/zap"
	"pgregory.net/rapid"
)

// Random sequences of buys, sells, deposits and price moves never leave a
// negative balance or a negative position, whatever gets rejected on the way.
func TestProperty_CashAndPositionsStayNonNegative(t *testing.T) {
	db := testutils.NewDB(t)
	quotes := quote.NewStatic()
	svc := ledger.NewService(db, quotes, zap.NewNop())
	symbols := []string{"AAA", "BBB", "CCC"}
	for _, s := range symbols {
		quotes.Set(s, s, money.Dollars(10))
	}
	ctx := context.Background()
	run := 0

	rapid.Check(t, func(rt *rapid.T) {
		run++
		user := testutils.CreateUser(t, db, fmt.Sprintf("user%d", run), money.Cents(rapid.Int64Range(0, 100_000).Draw(rt, "cash")))

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			sym := rapid.SampledFrom(symbols).Draw(rt, "symbol")
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				_, _ = svc.RecordBuy(ctx, user.ID, sym, rapid.Int64Range(-2, 50).Draw(rt, "shares"))
			case 1:
				_, _ = svc.RecordSell(ctx, user.ID, sym, rapid.Int64Range(-2, 50).Draw(rt, "shares"))
			case 2:
				_ = svc.AddCash(ctx, user.ID, money.Cents(rapid.Int64Range(-100, 10_000).Draw(rt, "deposit")))
			case 3:
				quotes.Set(sym, sym, money.Cents(rapid.Int64Range(1, 5_000).Draw(rt, "price")))
			}

			cash, err := svc.Cash(ctx, user.ID)
			if err != nil {
				rt.Fatalf("cash: %v", err)
			}
			if cash < 0 {
				rt.Fatalf("cash went negative: %d", cash)
			}
			for _, s := range symbols {
				pos, err := svc.NetPosition(ctx, user.ID, s)
				if err != nil {
					rt.Fatalf("position: %v", err)
				}
				if pos < 0 {
					rt.Fatalf("position in %s went negative: %d", s, pos)
				}
			}
		}
	})
}

// A buy followed by a sell of the same size at an unchanged price is a no-op
// on cash.
func TestProperty_RoundTrip(t *testing.T) {
	db := testutils.NewDB(t)
	quotes := quote.NewStatic()
	svc := ledger.NewService(db, quotes, zap.NewNop())
	ctx := context.Background()
	run := 0

	rapid.Check(t, func(rt *rapid.T) {
		run++
		user := testutils.CreateUser(t, db, fmt.Sprintf("rt%d", run), models.StartingCash)
		price := money.Cents(rapid.Int64Range(1, 100_000).Draw(rt, "price"))
		shares := rapid.Int64Range(1, int64(models.StartingCash/price)+1).Draw(rt, "shares")
		quotes.Set("RT", "Round Trip", price)

		if _, err := svc.RecordBuy(ctx, user.ID, "RT", shares); err != nil {
			// only an unaffordable order may be rejected
			if cost, _ := price.Times(shares); cost <= models.StartingCash {
				rt.Fatalf("affordable buy rejected: %v", err)
			}
			return
		}
		if _, err := svc.RecordSell(ctx, user.ID, "RT", shares); err != nil {
			rt.Fatalf("sell: %v", err)
		}
		cash, err := svc.Cash(ctx, user.ID)
		if err != nil {
			rt.Fatalf("cash: %v", err)
		}
		if cash != models.StartingCash {
			rt.Fatalf("cash %d after round trip, want %d", cash, models.StartingCash)
		}
	})
}
