package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/akozyrev/redflag/internal/model"
)

var (
	profilePartnerName string
	profileDescription string
	profileTechnique   string
	profileTimeout     time.Duration
	profileUser        int64
	profileNoCache     bool
	profileJSON        bool
	profileWait        bool
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <answers-file>",
	Short: "Build a partner risk profile from a completed assessment",
	Long: `Profile scores a completed 28-question partner assessment across six
behavioral blocks (narcissism, control, gaslighting, emotion, intimacy,
social) and synthesizes a narrative risk profile.

The answers file is YAML or JSON mapping question IDs to the chosen
option index (0 = most benign, 4 = most concerning):

  narcissism_q1: 2
  narcissism_q2: 0
  control_q1: 4
  ...

Example:
  redflag profile answers.yaml --partner-name "D."
  redflag profile answers.yaml --description "together 2 years" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profilePartnerName, "partner-name", "", "how to refer to the partner in the narrative")
	profileCmd.Flags().StringVar(&profileDescription, "description", "", "free-form relationship description")
	profileCmd.Flags().StringVar(&profileTechnique, "technique", "", "prompting technique (standard, chain_of_thought, self_refine)")
	profileCmd.Flags().DurationVar(&profileTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	profileCmd.Flags().Int64Var(&profileUser, "user", 0, "user ID for rate limiting")
	profileCmd.Flags().BoolVar(&profileNoCache, "no-cache", false, "bypass the result cache")
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "emit the raw result as JSON")
	profileCmd.Flags().BoolVar(&profileWait, "wait", false, "wait out the rate limit instead of failing")
}

func runProfile(cmd *cobra.Command, args []string) error {
	answers, err := loadAnswers(args[0])
	if err != nil {
		return err
	}

	eng, closeEngine, err := buildEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
	defer cancel()

	res, err := eng.Run(ctx, &model.AnalysisRequest{
		Operation:        model.OpPartnerProfile,
		UserID:           profileUser,
		PartnerName:      profilePartnerName,
		Text:             profileDescription,
		Answers:          answers,
		Technique:        profileTechnique,
		CacheAllowed:     !profileNoCache,
		BlockOnRateLimit: profileWait,
	})
	if err != nil {
		return err
	}
	return printResult(res, profileJSON)
}
