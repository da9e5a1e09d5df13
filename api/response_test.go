package api

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"fintrack/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestQueryError(t *testing.T) {
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", gorm.ErrRecordNotFound, 404, "预算不存在"},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), 404, "预算不存在"},
		{"other", errors.New("dial tcp: connection refused"), 500, "查询预算失败"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			QueryError(c, tt.err, "预算不存在", "查询预算失败")

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, float64(tt.status), resp["code"])
			assert.Equal(t, tt.message, resp["message"])
			assert.Contains(t, resp, "data")
			assert.Nil(t, resp["data"])
		})
	}
}
