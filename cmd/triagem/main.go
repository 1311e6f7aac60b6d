package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lgmartins/triagem/internal/cli"
)

func main() {
	// Local development convenience; absence of a .env file is not an error
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
