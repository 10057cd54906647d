package main

import (
	"github.com/joho/godotenv"

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driving/cli"
)

func main() {
	// Missing .env is fine; keys may come from the real environment.
	_ = godotenv.Load()

	cli.Execute()
}
