package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain"
)

func respondOK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps err to a status and a {success:false, error} body. Errors without a kind
// are logged and reported with the generic fallback message only.
func respondError(c *gin.Context, err error, fallback string) {
	kind := domain.KindOf(err)
	status := statusFor(err)

	if kind == domain.KindUnknown {
		log.WithField("request_id", c.GetString(requestIDKey)).Errorf("%s: %v", fallback, err)
	}
	_ = c.Error(err)

	c.JSON(status, gin.H{
		"success": false,
		"error":   domain.MessageOf(err, fallback),
		"kind":    kind.String(),
	})
}

func statusFor(err error) int {
	if domain.IsDuplicate(err) {
		return http.StatusConflict
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRemoteCall:
		return http.StatusBadGateway
	case domain.KindConfiguration:
		return http.StatusServiceUnavailable
	case domain.KindNoMatch:
		// A documented empty state, not a fault
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("request.id", "invalid id", err)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError("request.query", "invalid "+name, err)
	}
	return n, nil
}

func bindError(err error) error {
	return domain.NewValidationError("request.bind", validationMessage(err), err)
}
