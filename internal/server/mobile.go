package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
)

func (s *Server) QueryBill(c *gin.Context) {
	query, err := parseBillPeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billSvc.GetBillSummary(c.Request.Context(), query.SubscriberNo, query.Year, query.Month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) QueryBillDetailed(c *gin.Context) {
	query, err := parseBillPeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := parseOptionalInt(c.Query("page"))
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_page", "Page must be an integer."))
		return
	}
	pageSize, err := parseOptionalInt(c.Query("pageSize"))
	if err != nil {
		AbortWithError(c, newValidationError("pageSize", "invalid_page_size", "PageSize must be an integer."))
		return
	}

	resp, err := s.billSvc.GetBillDetailed(c.Request.Context(), billdomain.GetBillDetailedRequest{
		SubscriberNo: query.SubscriberNo,
		Year:         query.Year,
		Month:        query.Month,
		Page:         intOrZero(page),
		PageSize:     intOrZero(pageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
