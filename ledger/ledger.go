// Package ledger records buys, sells and cash deposits. It owns the
// invariants that a user's cash never goes negative and that no symbol's
// net position ever drops below zero.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"paper-trader/apperror"
	"paper-trader/database"
	"paper-trader/models"
	"paper-trader/money"
	"paper-trader/quote"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxShares bounds a single order so that share count times price stays
// far from int64 overflow.
const MaxShares = 1_000_000_000

// Position is the net holding of one symbol.
type Position struct {
	Symbol string
	Name   string
	Shares int64
}

// Service executes ledger operations against the database.
type Service struct {
	db     *gorm.DB
	quotes quote.Lookuper
	logger *zap.Logger
}

func NewService(db *gorm.DB, quotes quote.Lookuper, logger *zap.Logger) *Service {
	return &Service{db: db, quotes: quotes, logger: logger}
}

func validShares(shares int64) error {
	if shares <= 0 || shares > MaxShares {
		return apperror.New(apperror.InvalidInput, "shares must be a positive whole number")
	}
	return nil
}

// lookup resolves symbol to a live quote. Unknown symbols are a user error;
// provider failures are not.
func (s *Service) lookup(ctx context.Context, symbol string) (quote.Quote, error) {
	sym, err := quote.NormalizeSymbol(symbol)
	if err != nil {
		return quote.Quote{}, err
	}
	q, err := s.quotes.Lookup(ctx, sym)
	if errors.Is(err, quote.ErrNotFound) {
		return quote.Quote{}, apperror.ErrInvalidSymbol
	}
	if err != nil {
		return quote.Quote{}, fmt.Errorf("lookup %s: %w", sym, err)
	}
	return q, nil
}

// RecordBuy buys shares of symbol at the current price.
func (s *Service) RecordBuy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if err := validShares(shares); err != nil {
		return nil, err
	}
	q, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost, err := q.Price.Times(shares)
	if err != nil {
		return nil, apperror.New(apperror.InvalidInput, "order too large")
	}

	txn := &models.Transaction{
		UserID: userID,
		Symbol: q.Symbol,
		Name:   q.Name,
		Shares: shares,
		Price:  q.Price,
		Total:  cost,
	}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		user, err := database.LockUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Cash < cost {
			return apperror.ErrInsufficientFunds
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND cash >= ?", userID, int64(cost)).
			Update("cash", gorm.Expr("cash - ?", int64(cost)))
		if res.Error != nil {
			return fmt.Errorf("debit cash: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrInsufficientFunds
		}

		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buy recorded",
		zap.Uint("user_id", userID),
		zap.String("symbol", txn.Symbol),
		zap.Int64("shares", shares),
		zap.Int64("total_cents", int64(cost)))
	return txn, nil
}

// RecordSell sells shares of symbol at the current price.
func (s *Service) RecordSell(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if err := validShares(shares); err != nil {
		return nil, err
	}
	q, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds, err := q.Price.Times(shares)
	if err != nil {
		return nil, apperror.New(apperror.InvalidInput, "order too large")
	}

	txn := &models.Transaction{
		UserID: userID,
		Symbol: q.Symbol,
		Name:   q.Name,
		Shares: -shares,
		Price:  q.Price,
		Total:  -proceeds,
	}
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := database.LockUser(tx, userID); err != nil {
			return err
		}
		owned, err := netPosition(tx, userID, q.Symbol)
		if err != nil {
			return err
		}
		if shares > owned {
			return apperror.ErrInsufficientShares
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", int64(proceeds))).Error; err != nil {
			return fmt.Errorf("credit cash: %w", err)
		}
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sell recorded",
		zap.Uint("user_id", userID),
		zap.String("symbol", txn.Symbol),
		zap.Int64("shares", shares),
		zap.Int64("total_cents", int64(proceeds)))
	return txn, nil
}

// AddCash credits a positive amount to the user's balance.
func (s *Service) AddCash(ctx context.Context, userID uint, amount money.Cents) error {
	if amount <= 0 {
		return apperror.New(apperror.InvalidInput, "must use positive number")
	}
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		user, err := database.LockUser(tx, userID)
		if err != nil {
			return err
		}
		if _, err := money.FromDecimal(user.Cash.Decimal().Add(amount.Decimal())); err != nil {
			return apperror.New(apperror.InvalidInput, "amount too large")
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", int64(amount))).Error; err != nil {
			return fmt.Errorf("credit cash: %w", err)
		}
		return nil
	})
}

// Cash returns the user's current balance.
func (s *Service) Cash(ctx context.Context, userID uint) (money.Cents, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("cash").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, database.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load cash: %w", err)
	}
	return user.Cash, nil
}

// NetPosition returns the signed sum of shares the user holds in symbol.
func (s *Service) NetPosition(ctx context.Context, userID uint, symbol string) (int64, error) {
	sym, err := quote.NormalizeSymbol(symbol)
	if err != nil {
		return 0, err
	}
	return netPosition(s.db.WithContext(ctx), userID, sym)
}

func netPosition(db *gorm.DB, userID uint, symbol string) (int64, error) {
	var owned int64
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(shares), 0)").
		Where("userid = ? AND stocksymbol = ?", userID, symbol).
		Scan(&owned).Error
	if err != nil {
		return 0, fmt.Errorf("net position %s: %w", symbol, err)
	}
	return owned, nil
}

// Positions lists every symbol with a non-zero net position, by symbol.
func (s *Service) Positions(ctx context.Context, userID uint) ([]Position, error) {
	var rows []Position
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("stocksymbol AS symbol, MAX(stockname) AS name, SUM(shares) AS shares").
		Where("userid = ?", userID).
		Group("stocksymbol").
		Having("SUM(shares) <> 0").
		Order("stocksymbol").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return rows, nil
}

// History returns every transaction of the user, oldest first.
func (s *Service) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("userid = ?", userID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}},
			{Column: clause.Column{Name: "transactionid"}},
		}}).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return txns, nil
}
