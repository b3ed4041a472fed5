package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/contracts"
)

// squeezeCmd represents the squeeze command
var squeezeCmd = &cobra.Command{
	Use:   "squeeze",
	Short: "숏스퀴즈 분석",
	Long: `대차잔고와 수급을 결합한 숏스퀴즈 분석을 실행합니다.

Subcommands:
  candidates      - 오늘의 후보 종목 스캔
  analyze [code]  - 단일 종목 분석

Example:
  go run ./cmd/finboard squeeze candidates --limit 10
  go run ./cmd/finboard squeeze analyze 247540`,
}

var (
	squeezeLimit int

	squeezeCandidatesCmd = &cobra.Command{
		Use:   "candidates",
		Short: "숏스퀴즈 후보 종목 스캔",
		RunE:  runSqueezeCandidates,
	}

	squeezeAnalyzeCmd = &cobra.Command{
		Use:   "analyze [code]",
		Short: "단일 종목 스퀴즈 분석",
		Args:  cobra.ExactArgs(1),
		RunE:  runSqueezeAnalyze,
	}
)

func init() {
	rootCmd.AddCommand(squeezeCmd)
	squeezeCmd.AddCommand(squeezeCandidatesCmd)
	squeezeCmd.AddCommand(squeezeAnalyzeCmd)

	squeezeCandidatesCmd.Flags().IntVar(&squeezeLimit, "limit", 0, "결과 수 제한 (기본: 설정값)")
}

func runSqueezeCandidates(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	limit := squeezeLimit
	if limit <= 0 {
		limit = a.cfg.Screener.DefaultLimit
	}

	candidates, err := a.squeeze.Candidates(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("squeeze scan: %w", err)
	}

	fmt.Println("═══ 숏스퀴즈 후보 ═══")
	if len(candidates) == 0 {
		fmt.Println("기준 점수를 넘는 종목이 없습니다")
		return nil
	}

	fmt.Printf("%-8s %-16s %6s %-10s %s\n", "코드", "종목명", "점수", "등급", "설명")
	fmt.Println("────────────────────────────────────────────────────────────────")
	for _, c := range candidates {
		fmt.Printf("%-8s %-16s %6d %-10s %s\n",
			c.Code, c.Name, c.TotalScore, c.Tier, c.Description)
	}
	fmt.Printf("\n총 %d 종목\n", len(candidates))

	return nil
}

func runSqueezeAnalyze(cmd *cobra.Command, args []string) error {
	code := args[0]

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	score, err := a.squeeze.Analyze(cmd.Context(), code)
	if err != nil {
		return fmt.Errorf("squeeze analyze: %w", err)
	}

	printSqueezeScore(score)
	return nil
}

func printSqueezeScore(s contracts.SqueezeScore) {
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  %s (%s) 숏스퀴즈 분석\n", s.Name, s.Code)
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("  총점       : %d / 100 (%s)\n", s.TotalScore, s.Tier.Label())
	fmt.Printf("  과열       : %d / 30\n", s.OverheatScore)
	fmt.Printf("  숏커버링   : %d / 30\n", s.CoveringScore)
	fmt.Printf("  외국인 수급: %d / 20\n", s.ForeignScore)
	fmt.Printf("  추세 전환  : %d / 20\n", s.TrendScore)
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("  대차잔고       : %s주\n", s.LoanBalance.StringFixed(0))
	fmt.Printf("  대차잔고 20일평균: %s주\n", s.LoanBalanceAvg20.StringFixed(0))
	fmt.Printf("  외국인 3일 순매수: %s억원\n", s.ForeignNetBuy3D.StringFixed(1))
	if s.Description != "" {
		fmt.Printf("\n  %s\n", s.Description)
	}
	fmt.Println("═══════════════════════════════════════")
}
