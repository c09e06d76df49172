package main

import (
	"log"

	"github.com/joho/godotenv"

	rudimedia "github.com/nitikillua/rudi-media"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := rudimedia.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := rudimedia.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
