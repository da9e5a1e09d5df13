package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/router"

	"github.com/joho/godotenv"
)

// @title 个人记账 API
// @version 1.0
// @description 个人收支记账后端，支持流水、类别、预算、储蓄目标、债务与统计报表
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool

	issueToken string
	tokenName  string
	tokenEmail string
	tokenTTL   time.Duration
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")

	// 本地开发时代替外部身份提供方签发令牌
	flag.StringVar(&issueToken, "issue-token", "", "为指定 subject 签发访问令牌后退出")
	flag.StringVar(&tokenName, "token-name", "", "令牌中的用户名")
	flag.StringVar(&tokenEmail, "token-email", "", "令牌中的邮箱")
	flag.DurationVar(&tokenTTL, "token-ttl", 0, "令牌有效期，默认使用 jwt.expire_hours")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("个人记账 v1.0.0")
		return
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	if issueToken != "" {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.ExpireTime
		}
		token, err := middleware.GenerateToken(issueToken, tokenName, tokenEmail, ttl)
		if err != nil {
			log.Fatalf("签发令牌失败: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 设置路由
	r := router.SetupRouter(cfg)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  💰 个人记账服务已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("  指标:     http://localhost%s/metrics", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
