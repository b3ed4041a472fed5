package main

import (
	"os"

	"github.com/wonny/finboard/cmd/finboard/commands"
)

// main is the entry point for the finboard CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/finboard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
