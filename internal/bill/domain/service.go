package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	SubscriberNo string
	Year         int
	Month        int
	TotalAmount  decimal.Decimal
}

type PaymentRequest struct {
	SubscriberNo string
	Year         int
	Month        int
	Amount       decimal.Decimal
}

type PaymentStatus string

const (
	PaymentStatusAlreadyPaid PaymentStatus = "already_paid"
	PaymentStatusFullyPaid   PaymentStatus = "fully_paid"
	PaymentStatusPartial     PaymentStatus = "partial"
)

type PaymentResult struct {
	BillID          snowflake.ID    `json:"billId"`
	Status          PaymentStatus   `json:"paymentStatus"`
	Message         string          `json:"message"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

type UnpaidBill struct {
	SubscriberNo    string          `json:"subscriberNo"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

type BillSummary struct {
	SubscriberNo string          `json:"subscriberNo"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	BillTotal    decimal.Decimal `json:"billTotal"`
	IsPaid       bool            `json:"isPaid"`
}

type GetBillDetailedRequest struct {
	SubscriberNo string
	Year         int
	Month        int
	Page         int
	PageSize     int
}

type BillDetailItem struct {
	ID          snowflake.ID    `json:"id"`
	Description string          `json:"description"`
	ItemType    string          `json:"itemType"`
	Amount      decimal.Decimal `json:"amount"`
}

type DetailedBill struct {
	BillSummary
	Page             int              `json:"page"`
	PageSize         int              `json:"pageSize"`
	TotalDetailCount int64            `json:"totalDetailCount"`
	Details          []BillDetailItem `json:"details"`
}

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks
type Service interface {
	CreateBill(ctx context.Context, req CreateBillRequest) (Bill, error)
	ApplyPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
	ListUnpaidBills(ctx context.Context, subscriberNo string) ([]UnpaidBill, error)
	GetBillSummary(ctx context.Context, subscriberNo string, year, month int) (BillSummary, error)
	GetBillDetailed(ctx context.Context, req GetBillDetailedRequest) (DetailedBill, error)
}
