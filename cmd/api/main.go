package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/kajbd/kajbd-backend/internal/config"
	"github.com/kajbd/kajbd-backend/internal/db"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/realtime"
	"github.com/kajbd/kajbd-backend/internal/server"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	var store storage.Storage
	if cfg.DBDSN != "" {
		gdb, err := db.Connect(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		if err := gdb.AutoMigrate(
			&models.User{},
			&models.Job{},
			&models.Task{},
			&models.Application{},
			&models.Order{},
			&models.Message{},
		); err != nil {
			log.Fatal(err)
		}
		store = storage.NewGormStorage(gdb)
		log.Println("storage: postgres backend")
	} else {
		store = storage.NewMemStorage()
		log.Println("storage: in-memory backend (state is lost on restart)")
	}

	hub := realtime.NewHub()
	go hub.Run()

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("realtime: redis unreachable, falling back to local delivery: %v", err)
			rdb = nil
		}
	}
	broker := realtime.NewBroker(hub, rdb)
	go broker.Run(context.Background())

	app := server.New(cfg, store, hub, broker)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}
