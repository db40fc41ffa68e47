package main

import (
	"alojasys/config"
	"alojasys/di"
	"alojasys/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
