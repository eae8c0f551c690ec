package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/akozyrev/redflag/internal/model"
)

var (
	compatTimeout time.Duration
	compatUser    int64
	compatNoCache bool
	compatJSON    bool
	compatWait    bool
)

// compatCmd represents the compat command
var compatCmd = &cobra.Command{
	Use:   "compat <answers-a> <answers-b>",
	Short: "Assess compatibility risk between two completed assessments",
	Long: `Compat compares two completed 28-question assessments and reports the
combined risk picture: the blend leans toward the riskier partner in
each behavioral block, and wide gaps between the partners surface as
friction flags.

Example:
  redflag compat me.yaml partner.yaml
  redflag compat me.yaml partner.yaml --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompat,
}

func init() {
	rootCmd.AddCommand(compatCmd)

	compatCmd.Flags().DurationVar(&compatTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	compatCmd.Flags().Int64Var(&compatUser, "user", 0, "user ID for rate limiting")
	compatCmd.Flags().BoolVar(&compatNoCache, "no-cache", false, "bypass the result cache")
	compatCmd.Flags().BoolVar(&compatJSON, "json", false, "emit the raw result as JSON")
	compatCmd.Flags().BoolVar(&compatWait, "wait", false, "wait out the rate limit instead of failing")
}

func runCompat(cmd *cobra.Command, args []string) error {
	answersA, err := loadAnswers(args[0])
	if err != nil {
		return err
	}
	answersB, err := loadAnswers(args[1])
	if err != nil {
		return err
	}

	eng, closeEngine, err := buildEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := context.WithTimeout(context.Background(), compatTimeout)
	defer cancel()

	res, err := eng.Run(ctx, &model.AnalysisRequest{
		Operation:        model.OpCompatibility,
		UserID:           compatUser,
		Answers:          answersA,
		AnswersB:         answersB,
		CacheAllowed:     !compatNoCache,
		BlockOnRateLimit: compatWait,
	})
	if err != nil {
		return err
	}
	return printResult(res, compatJSON)
}
