package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/akozyrev/redflag/internal/model"
)

const keyPrefix = "redflag:v1:"

// Fingerprint derives the cache key for a request from its semantic
// content: operation, inputs and technique. User identity and delivery
// options stay out of the key, so identical questions from different
// users share one entry. Answer sets hash in sorted key order, making
// the fingerprint independent of map iteration.
func Fingerprint(req *model.AnalysisRequest) string {
	h := sha256.New()

	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00",
		req.Operation, req.Text, req.Context, req.PartnerName, req.Technique)
	hashAnswers(h, req.Answers)
	hashAnswers(h, req.AnswersB)

	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func hashAnswers(w io.Writer, answers model.AnswerSet) {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%d;", k, answers[k])
	}
	io.WriteString(w, "\x00")
}
