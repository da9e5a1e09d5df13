package router

import (
	"time"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(middleware.Metrics())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", middleware.MetricsHandler())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API v1 路由组
	// 令牌可选：匿名读取返回空结果，写操作在处理器内返回 401
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(), middleware.ResolveUser())
	{
		userHandler := api.NewUserHandler()
		users := v1.Group("/users")
		{
			users.GET("/me", userHandler.Current)
			users.POST("/me", userHandler.Store)
			users.PUT("/me", userHandler.UpdateProfile)
		}

		categoryHandler := api.NewCategoryHandler()
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.POST("/seed", categoryHandler.SeedDefaults)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		transactionHandler := api.NewTransactionHandler()
		importHandler := api.NewImportHandler()
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.POST("/split", transactionHandler.CreateSplit)
			transactions.GET("/recent", transactionHandler.Recent)
			transactions.POST("/import",
				middleware.RateLimit(10, time.Minute, "导入过于频繁，请稍后再试"),
				importHandler.Import)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		summaryHandler := api.NewSummaryHandler()
		summary := v1.Group("/summary")
		{
			summary.GET("/monthly", summaryHandler.Monthly)
			summary.GET("/yearly", summaryHandler.Yearly)
			summary.GET("/all-time", summaryHandler.AllTime)
		}

		v1.GET("/analytics", api.NewAnalyticsHandler().Trend)

		budgetHandler := api.NewBudgetHandler()
		budgets := v1.Group("/budgets")
		{
			budgets.GET("", budgetHandler.List)
			budgets.POST("", budgetHandler.Upsert)
			budgets.PUT("/:id", budgetHandler.Update)
			budgets.DELETE("/:id", budgetHandler.Delete)
		}

		goalHandler := api.NewGoalHandler()
		goals := v1.Group("/goals")
		{
			goals.GET("", goalHandler.List)
			goals.POST("", goalHandler.Create)
			goals.PUT("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
		}

		debtHandler := api.NewDebtHandler()
		debts := v1.Group("/debts")
		{
			debts.GET("", debtHandler.List)
			debts.POST("", debtHandler.Create)
			debts.PUT("/:id", debtHandler.Update)
			debts.DELETE("/:id", debtHandler.Delete)
			debts.POST("/:id/settle", debtHandler.Settle)
			debts.POST("/:id/undo", debtHandler.Undo)
		}

		// 导出相关
		exportHandler := api.NewExportHandler()
		export := v1.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/excel", exportHandler.ExportExcel)
			export.GET("/json", exportHandler.ExportJSON)
		}

		reportHandler := api.NewReportHandler(service.NewEmailService(&cfg.Email))
		v1.POST("/reports/monthly/email",
			middleware.RateLimit(5, time.Hour, "发送过于频繁，请稍后再试"),
			reportHandler.EmailMonthly)
	}

	return r
}

// corsConfig 未配置来源时允许任意来源，此时不携带凭证
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
