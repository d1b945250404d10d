// Command groundwork extracts PDF text and images and answers questions
// with keyword-grounded context.
package main

import (
	"github.com/joho/godotenv"

	"github.com/custodia-labs/groundwork/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()
	cli.Execute()
}
