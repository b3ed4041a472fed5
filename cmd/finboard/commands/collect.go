package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/scheduler/jobs"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "데이터 수집 즉시 실행",
	Long: `네이버 금융에서 전 종목의 시세와 투자자 수급을 수집합니다.

스케줄러를 기다리지 않고 즉시 한 번 수집할 때 사용합니다.

Example:
  go run ./cmd/finboard collect`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finboard Data Collection ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	job := jobs.NewDataCollectJob(a.naver, a.prices, a.flows, a.stocks, a.log)

	start := time.Now()
	if err := job.Run(cmd.Context()); err != nil {
		return fmt.Errorf("data collection: %w", err)
	}

	fmt.Printf("\n✅ Collection completed in %.1fs\n", time.Since(start).Seconds())
	return nil
}
