package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/finboard/internal/contracts"
)

// diagnoseCmd represents the diagnose command
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [code]",
	Short: "종목 진단",
	Long: `재무 건전성, 수급, 기술적 분석을 결합한 종목 진단 리포트를 출력합니다.

Example:
  go run ./cmd/finboard diagnose 005930`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	code := args[0]

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.doctor.Diagnose(cmd.Context(), code)
	if err != nil {
		return fmt.Errorf("diagnose: %w", err)
	}

	printDiagnosis(result)
	return nil
}

func printDiagnosis(r contracts.DiagnosisResult) {
	fmt.Println("═══════════════════════════════════════════════════")
	if r.Name != "" {
		fmt.Printf("  %s (%s) 종목 진단\n", r.Name, r.Code)
	} else {
		fmt.Printf("  %s 종목 진단\n", r.Code)
	}
	fmt.Println("───────────────────────────────────────────────────")
	fmt.Printf("  종합 점수 : %d / 100\n", r.OverallScore)
	fmt.Printf("  판정      : %s (%s)\n", r.Verdict, r.VerdictLevel)
	fmt.Printf("  %s\n", r.VerdictLevel.Description())
	fmt.Println("───────────────────────────────────────────────────")
	fmt.Printf("  재무 건전성 : %3d점  %s\n", r.FinancialHealth.Score, r.FinancialHealth.Assessment)
	fmt.Printf("  수급        : %3d점  %s\n", r.SupplyDemand.Score, r.SupplyDemand.Assessment)
	fmt.Printf("  기술적 분석 : %3d점  %s\n", r.TechnicalAnalysis.Score, r.TechnicalAnalysis.Assessment)

	if len(r.Positives) > 0 {
		fmt.Println("───────────────────────────────────────────────────")
		fmt.Println("  긍정 요인:")
		for _, p := range r.Positives {
			fmt.Printf("    + %s\n", p)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Println("───────────────────────────────────────────────────")
		fmt.Println("  경고:")
		for _, w := range r.Warnings {
			fmt.Printf("    ! %s\n", w)
		}
	}
	fmt.Println("═══════════════════════════════════════════════════")
}
