package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
	"github.com/sjperalta/fintera-ledger/internal/services"
	"github.com/sjperalta/fintera-ledger/pkg/amount"
	"github.com/sjperalta/fintera-ledger/pkg/logger"
)

// statusFor maps a ledger error to its HTTP status
func statusFor(err error) int {
	kind, code, ok := services.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case services.KindValidation:
		if code == services.ErrDuplicateCode.Code || code == services.ErrDuplicate.Code {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case services.KindInvariant:
		return http.StatusUnprocessableEntity
	case services.KindState, services.KindConflict:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes {"error", "code"} for err. Unclassified errors are
// reported to Sentry and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		logger.FromContext(c.Request.Context()).Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error", "code": "internal_error"})
		return
	}

	_, code, _ := services.KindOf(err)
	body := gin.H{"error": err.Error(), "code": code}
	var disc *services.DiscrepancyError
	if errors.As(err, &disc) {
		body["amount"] = amount.String(disc.Amount)
	}
	c.JSON(status, body)
}

// badRequest reports a malformed request that never reached a service
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": services.ErrValidation.Code})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || v == 0 {
		badRequest(c, fmt.Sprintf("invalid %s", param))
		return 0, false
	}
	return uint(v), true
}

// parseOptionalUint reads a numeric query or body value; empty means nil
func parseOptionalUint(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	u := uint(v)
	return &u, nil
}

// parseDate reads a YYYY-MM-DD value, falling back to def when empty
func parseDate(raw string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return models.ParseDate(strings.TrimSpace(raw))
}

// parseOptionalDate reads a YYYY-MM-DD value; empty means nil
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// listQuery reads pagination, search and sort ("field-direction") plus the
// named filters from the query string
func listQuery(c *gin.Context, filters ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	for _, f := range filters {
		if v := c.Query(f); v != "" {
			query.Filters[f] = v
		}
	}
	query.Normalize()
	return query
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": query.TotalPages(total),
	}
}
