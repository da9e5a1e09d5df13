package middleware

import (
	"errors"
	"log"
	"net/http"

	"fintrack/database"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResolveUser 根据令牌标识查找已注册用户，并把用户ID放入 context
// 需在 Authenticate 之后使用。用户尚未注册时不设置 userID
func ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		var user models.User
		err := database.DB.Select("id").
			Where("token_identifier = ?", claims.TokenIdentifier()).
			First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("查询用户失败: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    500,
					"message": "查询用户失败",
					"data":    nil,
				})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Next()
	}
}
