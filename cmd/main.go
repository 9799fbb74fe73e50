package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/routes"
	"github.com/vnkhanh/eventcall-server/utils"
)

func main() {
	// .env cho môi trường dev; trên server dùng env thật
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy .env, dùng biến môi trường hệ thống")
	}

	config.LoadApp()

	// Kết nối DB + AutoMigrate
	config.ConnectDB()

	// Kho key-value chuyển từ fallback in-memory sang Postgres
	utils.KV = utils.NewDBStore(config.DB)
	utils.StartKVSweeper(time.Minute)

	// Watchdog phiên: quét mỗi 60s theo hợp đồng độ chính xác một phút
	utils.StartSessionWatchdog(60 * time.Second)

	// Tạo instance router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  middleware.OriginAllowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderCSRF},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Route test server
	r.GET("/", func(c *gin.Context) {
		c.String(200, "EventCall server is running")
	})

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	// Setup routes khác
	routes.SetupRoutes(r)

	// Lấy PORT từ biến môi trường
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on port %s\n", port)
	r.Run(":" + port)
}
