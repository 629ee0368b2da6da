package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeStudio/internal/templatedoc"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string)      { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)        { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)        { Error(c, http.StatusConflict, msg) }
func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }
func Internal(c *gin.Context, msg string)        { Error(c, http.StatusInternalServerError, msg) }

// InvalidDocument 返回 422 以及全部校验错误。
func InvalidDocument(c *gin.Context, errs []templatedoc.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}
