package main

import (
	"log"

	"github.com/MrSnakeDoc/postnav/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("❌ postnav failed: %v", err)
	}
}
