package main

import (
	"context"
	"log"
	"os"

	"lychee-collector/config"
	console "lychee-collector/internal/api"
	"lychee-collector/internal/container"
	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
	"lychee-collector/internal/infrastructure/camera"
	"lychee-collector/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаём хранилище образцов и каталоги под данные
	repo, err := storage.NewFileSampleRepository(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to create sample storage: %v", err)
	}

	// Две камеры: видимый спектр и ближний инфракрасный
	cameras := map[entity.Channel]port.Camera{
		entity.ChannelRGB: camera.NewFeed(entity.ChannelRGB, cfg.RGBCameraIndex),
		entity.ChannelNIR: camera.NewFeed(entity.ChannelNIR, cfg.NIRCameraIndex),
	}

	// Собираем сервисы приложения
	appContainer := container.New(repo, cameras)

	ui := console.New(appContainer.Session, os.Stdin, os.Stdout)

	log.Printf("Data directory: %s", cfg.DataDir)
	if err := ui.Run(context.Background()); err != nil {
		log.Fatalf("Console error: %v", err)
	}
}
