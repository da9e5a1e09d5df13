package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Response 统一响应信封，data 字段始终输出，匿名读取时为 null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

// Error 错误响应，data 为 null
func Error(c *gin.Context, status int, message string) {
	respond(c, status, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// QueryError 按查询错误类型写响应：记录不存在返回 404，其余返回 500
func QueryError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, notFoundMsg)
		return
	}
	InternalError(c, SafeErrorMessage(err, failMsg))
}
