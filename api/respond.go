package api

import (
	"net/http"
	"strconv"

	"screen-ai/apperr"
	"screen-ai/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultPageLimit = 100

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// respondError übersetzt einen Service-Fehler genau einmal in Status und
// Fehlerobjekt. Interne Fehler werden geloggt und nie im Klartext gezeigt.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.KindInternal {
		log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		msg = "internal server error"
	}
	abortWithError(c, kind.Status(), kind.String(), msg)
}

func badRequest(c *gin.Context, msg string) {
	abortWithError(c, http.StatusBadRequest, apperr.KindValidation.String(), msg)
}

// bindJSON bindet den Body; bei Fehlern ist die Antwort bereits geschrieben.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}

// pageFromQuery liest skip und limit. limit über maxLimit wird gekappt.
func pageFromQuery(c *gin.Context, maxLimit int) (services.Page, bool) {
	page := services.Page{Skip: 0, Limit: defaultPageLimit}
	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "skip must be a non-negative integer")
			return page, false
		}
		page.Skip = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return page, false
		}
		page.Limit = n
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, true
}
