package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	SecretKey []byte
	Port      string
)

func Init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, relying on environment: %v", err)
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatal("JWT secret key not set")
	}
	SecretKey = []byte(secret)

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = ":8080"
	}
}
