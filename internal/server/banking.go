package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryUnpaidBills lists every open bill of a subscriber, oldest period first.
func (s *Server) QueryUnpaidBills(c *gin.Context) {
	subscriberNo := strings.TrimSpace(c.Query("subscriberNo"))
	if subscriberNo == "" {
		AbortWithError(c, newValidationError("subscriberNo", "required", "SubscriberNo is required."))
		return
	}

	bills, err := s.billSvc.ListUnpaidBills(c.Request.Context(), subscriberNo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bills)
}
