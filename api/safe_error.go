package api

import (
	"log"

	"fintrack/config"
)

// SafeErrorMessage 返回给客户端的错误信息。release 模式下只返回 fallback，原始错误写入日志
func SafeErrorMessage(err error, fallback string) string {
	if err != nil {
		log.Printf("%s: %v", fallback, err)
	}
	return config.SafeErrorMessage(err, fallback)
}
