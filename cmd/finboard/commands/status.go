package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "시스템 상태 확인",
	Long: `데이터베이스, 캐시, 외부 데이터 소스의 상태를 출력합니다.

Example:
  go run ./cmd/finboard status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finboard System Status ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("\nDatabase : ❌ %v\n", err)
	} else if health.Healthy {
		fmt.Printf("\nDatabase : ✅ healthy (%v)\n", health.ResponseTime)
	} else {
		fmt.Printf("\nDatabase : ❌ %s\n", health.Error)
	}

	if a.redis.Enabled() {
		fmt.Println("Redis    : ✅ enabled")
	} else {
		fmt.Println("Redis    : ⚠️  disabled (캐시 없이 동작)")
	}

	sources := a.sources.All()
	if len(sources) > 0 {
		fmt.Println("\nData sources:")
		for _, s := range sources {
			fmt.Printf("  - %-10s %s", s.Name, s.State)
			if s.Reason != "" {
				fmt.Printf(" (%s)", s.Reason)
			}
			fmt.Println()
		}
	}

	date, err := a.prices.LatestTradingDate(ctx)
	if err == nil {
		fmt.Printf("\nLatest trading date: %s\n", date.Format("2006-01-02"))
	}

	return nil
}
