package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- data_collect:   평일 18:00 (시세/수급 수집)
- squeeze_scan:   평일 18:30 (숏스퀴즈 스캔)
- screen_refresh: 평일 19:00 (스크리너 캐시 갱신)

Subcommands:
  start  - 스케줄러 시작
  list   - 등록된 작업 목록
  run    - 특정 작업 즉시 실행

Example:
  go run ./cmd/finboard scheduler start
  go run ./cmd/finboard scheduler run data_collect`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobOnce,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finboard Scheduler ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler(nil)
	if err != nil {
		return err
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	printJobList(sched.Stats())
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler(nil)
	if err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	printJobList(sched.Stats())

	return nil
}

func runJobOnce(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler(nil)
	if err != nil {
		return err
	}

	before := sched.Stats()[jobName].TotalRuns

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob은 백그라운드 고루틴으로 실행되므로 완료까지 대기
	fmt.Println("Job started, waiting for completion...")
	for sched.Stats()[jobName].TotalRuns == before {
		time.Sleep(500 * time.Millisecond)
	}

	records, err := sched.History(jobName, 1)
	if err != nil || len(records) == 0 {
		fmt.Println("Job finished (no run record)")
		return nil
	}

	r := records[0]
	if r.Success {
		fmt.Printf("✅ Job %s completed in %.2fs\n", jobName, r.Duration.Seconds())
	} else {
		fmt.Printf("❌ Job %s failed: %s\n", jobName, r.Error)
	}

	return nil
}

func printJobList(stats map[string]scheduler.JobStats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  - %-16s %s\n", name, stats[name].Schedule)
	}
}
