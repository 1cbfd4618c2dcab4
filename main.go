package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vgeorgieva/Social-Network/rest"
)

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using defaults")
	}

	a := rest.App{}
	a.Init(
		getenv("DB_USER", "root"),
		getenv("DB_PASSWORD", "1234"),
		getenv("DB_NAME", "social_network"),
	)

	if os.Getenv("SEED_DATA") == "1" {
		a.AddData()
	}

	a.Run(getenv("LISTEN_ADDR", ":8080"))
}
