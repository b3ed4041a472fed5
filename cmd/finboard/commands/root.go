package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finboard",
	Short: "finboard - 국내 주식 스크리닝 & 진단 엔진",
	Long: `finboard Unified CLI

기술적 지표, 숏스퀴즈 분석, 재무 스크리닝, 종목 진단을
하나의 엔진으로 제공합니다.

Usage:
  go run ./cmd/finboard [command]

Examples:
  go run ./cmd/finboard api
  go run ./cmd/finboard screen magic-formula
  go run ./cmd/finboard squeeze candidates
  go run ./cmd/finboard diagnose 005930`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
