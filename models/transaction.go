package models

import (
	"time"

	"paper-trader/money"
)

// Transaction is one executed buy (Shares > 0) or sell (Shares < 0).
// Rows are only ever inserted.
type Transaction struct {
	ID        uint        `gorm:"column:transactionid;primaryKey"`
	UserID    uint        `gorm:"column:userid;index;not null"`
	Symbol    string      `gorm:"column:stocksymbol;size:16;index;not null"`
	Name      string      `gorm:"column:stockname;size:255"`
	Shares    int64       `gorm:"not null"`
	Price     money.Cents `gorm:"not null"`
	Total     money.Cents `gorm:"not null"`
	Timestamp time.Time   `gorm:"autoCreateTime;index"`
}

// IsBuy reports whether the transaction bought shares.
func (t Transaction) IsBuy() bool { return t.Shares > 0 }
