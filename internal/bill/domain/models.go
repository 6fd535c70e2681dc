package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	MinYear  = 2000
	MaxYear  = 2100
	MinMonth = 1
	MaxMonth = 12
)

// Bill is one subscriber's invoice for a calendar month.
type Bill struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	SubscriberID snowflake.ID    `gorm:"not null;uniqueIndex:ux_bills_subscriber_period,priority:1" json:"subscriberId"`
	Year         int             `gorm:"not null;uniqueIndex:ux_bills_subscriber_period,priority:2" json:"year"`
	Month        int             `gorm:"not null;uniqueIndex:ux_bills_subscriber_period,priority:3" json:"month"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalAmount"`
	PaidAmount   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"paidAmount"`
	IsPaid       bool            `gorm:"not null;default:false" json:"isPaid"`
	CreatedAt    time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updatedAt"`
}

func (Bill) TableName() string { return "bills" }

// Remaining is zero once the bill is settled, whatever the recorded paid amount.
func (b Bill) Remaining() decimal.Decimal {
	if b.IsPaid {
		return decimal.Zero
	}
	remaining := b.TotalAmount.Sub(b.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

type BillDetail struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	BillID      snowflake.ID    `gorm:"not null;index:idx_bill_details_bill,priority:1" json:"billId"`
	Description string          `gorm:"size:255;not null" json:"description"`
	ItemType    string          `gorm:"size:32;not null" json:"itemType"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
}

func (BillDetail) TableName() string { return "bill_details" }

const (
	ItemTypeCall  = "Call"
	ItemTypeSMS   = "SMS"
	ItemTypeData  = "Data"
	ItemTypeOther = "Other"
)

// ValidPeriod reports whether year and month fall in the billable range.
func ValidPeriod(year, month int) bool {
	return year >= MinYear && year <= MaxYear && month >= MinMonth && month <= MaxMonth
}
