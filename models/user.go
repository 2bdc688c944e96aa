package models

import "paper-trader/money"

// StartingCash is the balance of a freshly registered user.
const StartingCash = money.Cents(1000000)

type User struct {
	ID       uint        `gorm:"primaryKey"`
	Username string      `gorm:"size:64;uniqueIndex;not null"`
	Hash     string      `gorm:"column:hash;size:255;not null"`
	Cash     money.Cents `gorm:"not null;check:cash >= 0"`
}
