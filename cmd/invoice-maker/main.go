package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/k-ymmt/invoice-maker/internal/config"
	"github.com/k-ymmt/invoice-maker/internal/server"
)

var (
	port       = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode    = flag.Bool("dev", false, "开发模式")
	workDetail = flag.String("workDetail", "", "工作明细工作簿路径 (覆盖配置文件)")
	invoice    = flag.String("invoice", "", "请求书工作簿路径 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  invoice-maker - 工作明细请求书生成服务")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *workDetail != "" {
		cfg.Documents.WorkDetailPath = *workDetail
	}
	if *invoice != "" {
		cfg.Documents.InvoicePath = *invoice
	}

	fmt.Printf("工作明细: %s\n", cfg.Documents.WorkDetailPath)
	fmt.Printf("请求书:   %s\n", cfg.Documents.InvoicePath)

	// 创建服务器
	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭时释放资源失败: %v", err)
	}
}
