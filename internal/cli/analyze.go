package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akozyrev/redflag/internal/model"
)

var (
	analyzeContext   string
	analyzeTechnique string
	analyzeTimeout   time.Duration
	analyzeUser      int64
	analyzeNoCache   bool
	analyzeJSON      bool
	analyzeWait      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <text | - >",
	Short: "Analyze a message exchange for relationship risk patterns",
	Long: `Analyze scans a free-text sample (a message, a dialogue fragment) for
manipulation, control, gaslighting and aggression markers.

Pass the text as an argument, or "-" to read it from stdin.

Example:
  redflag analyze "he said I can't see my friends anymore"
  cat chat-export.txt | redflag analyze -
  redflag analyze "..." --context "messages from the last week" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeContext, "context", "", "requester context for the sample")
	analyzeCmd.Flags().StringVar(&analyzeTechnique, "technique", "", "prompting technique (standard, chain_of_thought, self_refine)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().Int64Var(&analyzeUser, "user", 0, "user ID for rate limiting")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "bypass the result cache")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the raw result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeWait, "wait", false, "wait out the rate limit instead of failing")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := args[0]
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	eng, closeEngine, err := buildEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	res, err := eng.Run(ctx, &model.AnalysisRequest{
		Operation:        model.OpTextScan,
		UserID:           analyzeUser,
		Text:             text,
		Context:          analyzeContext,
		Technique:        analyzeTechnique,
		CacheAllowed:     !analyzeNoCache,
		BlockOnRateLimit: analyzeWait,
	})
	if err != nil {
		return err
	}
	return printResult(res, analyzeJSON)
}
