package main

import (
	"log"

	"github.com/daycarehq/daycare_backend/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		log.Fatalf("daycare: %v", err)
	}
}
