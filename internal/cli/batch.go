package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akozyrev/redflag/internal/engine"
	"github.com/akozyrev/redflag/internal/model"
)

var (
	batchContext   string
	batchTechnique string
	batchTimeout   time.Duration
	batchUser      int64
	batchNoCache   bool
	batchFailFast  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <texts-file | - >",
	Short: "Analyze many text samples in one run",
	Long: `Batch reads one text sample per line (blank lines and # comments are
skipped) and analyzes them concurrently through the shared provider
budget. Items wait out the per-user rate limit instead of failing, so
a long batch completes rather than dying on the second line.

Output is one JSON object per line, in input order, so results can be
piped into jq or a file.

Example:
  redflag batch samples.txt > results.jsonl
  cat samples.txt | redflag batch - --technique standard`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchContext, "context", "", "requester context applied to every sample")
	batchCmd.Flags().StringVar(&batchTechnique, "technique", "", "prompting technique (standard, chain_of_thought, self_refine)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().Int64Var(&batchUser, "user", 0, "user ID for rate limiting")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "bypass the result cache")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "exit non-zero if any item fails")
}

func runBatch(cmd *cobra.Command, args []string) error {
	texts, err := loadLines(args[0])
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no samples to analyze in %s", args[0])
	}

	eng, closeEngine, err := buildEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	reqs := make([]*model.AnalysisRequest, len(texts))
	for i, text := range texts {
		reqs[i] = &model.AnalysisRequest{
			Operation:        model.OpTextScan,
			UserID:           batchUser,
			Text:             text,
			Context:          batchContext,
			Technique:        batchTechnique,
			CacheAllowed:     !batchNoCache,
			BlockOnRateLimit: true,
		}
	}

	results := eng.RunBatch(ctx, reqs)

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for i, br := range results {
		line := batchLine{Index: i, Text: texts[i]}
		if br.Err != nil {
			failed++
			line.Error = br.Err.Error()
		} else {
			line.Result = br.Result
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "batch: %d samples, %d failed\n", len(texts), failed)
	}
	if batchFailFast && failed > 0 {
		return fmt.Errorf("%d of %d samples failed", failed, len(texts))
	}
	return nil
}

// batchLine is one JSON-lines record of the batch output
type batchLine struct {
	Index  int            `json:"index"`
	Text   string         `json:"text"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// loadLines reads non-empty, non-comment lines from a file or stdin
func loadLines(path string) ([]string, error) {
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open samples file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read samples file: %w", err)
	}
	return lines, nil
}
