package main

import (
	"github.com/joho/godotenv"

	"github.com/hirosato/bookkeeper/internal/cli"
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	cli.Execute()
}
