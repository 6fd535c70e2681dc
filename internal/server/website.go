package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
)

type payBillRequest struct {
	SubscriberNo string          `json:"subscriberNo"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Amount       decimal.Decimal `json:"amount"`
}

// PayBill is public. An already settled bill answers 200 with paymentStatus "already_paid".
func (s *Server) PayBill(c *gin.Context) {
	var req payBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.ApplyPayment(c.Request.Context(), billdomain.PaymentRequest{
		SubscriberNo: strings.TrimSpace(req.SubscriberNo),
		Year:         req.Year,
		Month:        req.Month,
		Amount:       req.Amount,
	})
	if err != nil {
		if errors.Is(err, billdomain.ErrInvalidAmount) {
			err = withMessage(err, "Amount must be greater than zero.")
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
