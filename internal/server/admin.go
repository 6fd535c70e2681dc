package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/observability/logger"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"go.uber.org/zap"
)

const maxBatchBodyBytes = 64 << 20

type addBillRequest struct {
	SubscriberNo string          `json:"subscriberNo"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

type addBillResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	BillID  snowflake.ID `json:"billId"`
}

func (s *Server) AddBill(c *gin.Context) {
	var req addBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subscriberNo := strings.TrimSpace(req.SubscriberNo)
	bill, err := s.billSvc.CreateBill(c.Request.Context(), billdomain.CreateBillRequest{
		SubscriberNo: subscriberNo,
		Year:         req.Year,
		Month:        req.Month,
		TotalAmount:  req.TotalAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, billdomain.ErrInvalidAmount):
			err = withMessage(err, "TotalAmount must be greater than zero.")
		case errors.Is(err, subscriberdomain.ErrNotFound):
			err = withMessage(err, "Subscriber not found: "+subscriberNo)
		}
		AbortWithError(c, err)
		return
	}

	if principal, ok := principalFromContext(c); ok {
		logger.WithContext(c.Request.Context(), s.log).Info("bill added by admin",
			zap.String("actor", principal.Subject),
			zap.String("bill_id", bill.ID.String()),
		)
	}

	c.JSON(http.StatusOK, addBillResponse{
		Status:  "Success",
		Message: "Bill created successfully.",
		BillID:  bill.ID,
	})
}

// AddBillBatch accepts the CSV either as a multipart "file" part or as a raw text/csv body.
func (s *Server) AddBillBatch(c *gin.Context) {
	body, err := batchBody(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer body.Close()

	result, err := s.importSvc.ImportBatch(c.Request.Context(), body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func batchBody(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchBodyBytes)

	switch c.ContentType() {
	case "multipart/form-data":
		header, err := c.FormFile("file")
		if err != nil || header == nil || header.Size == 0 {
			return nil, ErrCSVRequired
		}
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		return file, nil
	case "text/csv", "text/plain":
		if c.Request.ContentLength == 0 {
			return nil, ErrCSVRequired
		}
		return c.Request.Body, nil
	default:
		return nil, ErrCSVRequired
	}
}

func (s *Server) GetSubscriber(c *gin.Context) {
	subscriberNo := strings.TrimSpace(c.Param("subscriberNo"))

	resp, err := s.subscriberSvc.GetByNumber(c.Request.Context(), subscriberNo)
	if err != nil {
		if errors.Is(err, subscriberdomain.ErrNotFound) {
			err = withMessage(err, "Subscriber not found: "+subscriberNo)
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
