package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/akozyrev/redflag/internal/model"
)

func baseRequest() *model.AnalysisRequest {
	return &model.AnalysisRequest{
		Operation: model.OpPartnerProfile,
		UserID:    42,
		Text:      "partner description",
		Answers: model.AnswerSet{
			"control_q1":    3,
			"narcissism_q1": 1,
			"gaslighting_q2": 4,
		},
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(baseRequest())
	b := Fingerprint(baseRequest())
	if a != b {
		t.Errorf("identical requests fingerprinted differently: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "redflag:v1:") {
		t.Errorf("key %s missing version prefix", a)
	}
}

func TestFingerprintIgnoresUserIdentity(t *testing.T) {
	a := baseRequest()
	b := baseRequest()
	b.UserID = 7
	b.CacheAllowed = true
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("user identity and delivery options leaked into the fingerprint")
	}
}

func TestFingerprintSensitiveToContent(t *testing.T) {
	base := Fingerprint(baseRequest())

	changedText := baseRequest()
	changedText.Text = "different description"
	if Fingerprint(changedText) == base {
		t.Error("text change did not change the fingerprint")
	}

	changedOp := baseRequest()
	changedOp.Operation = model.OpTextScan
	if Fingerprint(changedOp) == base {
		t.Error("operation change did not change the fingerprint")
	}

	changedAnswer := baseRequest()
	changedAnswer.Answers["control_q1"] = 0
	if Fingerprint(changedAnswer) == base {
		t.Error("answer change did not change the fingerprint")
	}
}

func TestFingerprintAnswerOrderIrrelevant(t *testing.T) {
	// Maps iterate in random order; build two sets with different
	// insertion histories and the same content
	a := baseRequest()
	b := baseRequest()
	b.Answers = model.AnswerSet{}
	b.Answers["gaslighting_q2"] = 4
	b.Answers["narcissism_q1"] = 1
	b.Answers["control_q1"] = 3

	for i := 0; i < 20; i++ {
		if Fingerprint(a) != Fingerprint(b) {
			t.Fatal("answer map order changed the fingerprint")
		}
	}
}

func TestFingerprintDistinguishesAnswerSets(t *testing.T) {
	// The same pairs split differently between the two partners must
	// not collide
	a := &model.AnalysisRequest{
		Operation: model.OpCompatibility,
		Answers:   model.AnswerSet{"control_q1": 3},
		AnswersB:  model.AnswerSet{},
	}
	b := &model.AnalysisRequest{
		Operation: model.OpCompatibility,
		Answers:   model.AnswerSet{},
		AnswersB:  model.AnswerSet{"control_q1": 3},
	}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("partner A and partner B answers collided")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "absent"); err != nil || found {
		t.Errorf("get on empty store: found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "k", []byte("profile"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found, err := store.Get(ctx, "k")
	if err != nil || !found || string(val) != "profile" {
		t.Errorf("get after set: val=%q found=%v err=%v", val, found, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("value survived delete")
	}
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	ctx := context.Background()

	store.Set(ctx, "short", []byte("v"), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, found, _ := store.Get(ctx, "short"); found {
		t.Error("entry survived its TTL")
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(model.CacheConfig{Backend: "memcached"}); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestNewDefaultsToMemory(t *testing.T) {
	store, err := New(model.CacheConfig{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*Memory); !ok {
		t.Errorf("default backend is %T, want *Memory", store)
	}
}
