package http

import (
	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, dto.NewRes(status, data, message))
}

// respondError maps err to its status once; server-side causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= 500 {
		logger.GetLogger().WithField("error", err).WithField("path", c.FullPath()).Error("Request failed")
	}
	c.JSON(status, dto.ErrRes{StatusCode: status, Message: apperror.PublicMessage(err), Success: false})
}
