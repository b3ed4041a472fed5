package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "재무 스크리너 실행",
	Long: `재무제표 기반 스크리너를 실행하고 결과를 출력합니다.

Subcommands:
  magic-formula  - 마법의 공식 (영업이익률 + ROE 결합 순위)
  peg            - 저PEG 성장주
  turnaround     - 턴어라운드 (흑자전환/이익급증)

Example:
  go run ./cmd/finboard screen magic-formula --limit 10
  go run ./cmd/finboard screen peg --max-peg 0.8
  go run ./cmd/finboard screen turnaround`,
}

var (
	screenLimit        int
	screenMinMarketCap string
	screenMaxPEG       string
	screenMinEPSGrowth string

	screenMagicCmd = &cobra.Command{
		Use:   "magic-formula",
		Short: "마법의 공식 스크리닝",
		RunE:  runMagicFormula,
	}

	screenPEGCmd = &cobra.Command{
		Use:   "peg",
		Short: "저PEG 성장주 스크리닝",
		RunE:  runLowPEG,
	}

	screenTurnaroundCmd = &cobra.Command{
		Use:   "turnaround",
		Short: "턴어라운드 스크리닝",
		RunE:  runTurnaround,
	}
)

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.AddCommand(screenMagicCmd)
	screenCmd.AddCommand(screenPEGCmd)
	screenCmd.AddCommand(screenTurnaroundCmd)

	screenCmd.PersistentFlags().IntVar(&screenLimit, "limit", 0, "결과 수 제한 (기본: 설정값)")
	screenMagicCmd.Flags().StringVar(&screenMinMarketCap, "min-cap", "", "최소 시가총액 (원)")
	screenPEGCmd.Flags().StringVar(&screenMaxPEG, "max-peg", "", "PEG 상한")
	screenPEGCmd.Flags().StringVar(&screenMinEPSGrowth, "min-eps-growth", "", "최소 EPS 성장률 (%)")
}

func screenResultLimit(a *app) int {
	if screenLimit > 0 {
		return screenLimit
	}
	return a.cfg.Screener.DefaultLimit
}

// flagDecimal parses a decimal flag value, zero when empty or malformed
func flagDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func runMagicFormula(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.screener.MagicFormula(cmd.Context(), screenResultLimit(a), flagDecimal(screenMinMarketCap))
	if err != nil {
		return fmt.Errorf("magic formula screen: %w", err)
	}

	fmt.Println("═══ 마법의 공식 ═══")
	printScreenResults(results)
	return nil
}

func runLowPEG(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.screener.LowPEG(cmd.Context(),
		flagDecimal(screenMaxPEG), flagDecimal(screenMinEPSGrowth), screenResultLimit(a))
	if err != nil {
		return fmt.Errorf("peg screen: %w", err)
	}

	fmt.Println("═══ 저PEG 성장주 ═══")
	printScreenResults(results)
	return nil
}

func runTurnaround(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.screener.Turnaround(cmd.Context(), screenResultLimit(a))
	if err != nil {
		return fmt.Errorf("turnaround screen: %w", err)
	}

	fmt.Println("═══ 턴어라운드 ═══")
	printScreenResults(results)
	return nil
}

func printScreenResults(results []contracts.ScreenerResult) {
	if len(results) == 0 {
		fmt.Println("조건에 맞는 종목이 없습니다")
		return
	}

	fmt.Printf("%-4s %-8s %-16s %-8s %10s %8s %8s\n",
		"순위", "코드", "종목명", "시장", "현재가", "PER", "ROE")
	fmt.Println("────────────────────────────────────────────────────────────────")
	for _, r := range results {
		fmt.Printf("%-4d %-8s %-16s %-8s %10s %8s %8s\n",
			r.Position, r.Code, r.Name, r.Market,
			r.CurrentPrice.StringFixed(0),
			nullDecimalString(r.PER),
			nullDecimalString(r.ROE))
	}
	fmt.Printf("\n총 %d 종목\n", len(results))
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
