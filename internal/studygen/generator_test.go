package studygen

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
)

func TestExactScores_HitTargetMoments(t *testing.T) {
	for _, tc := range []struct {
		mean, sd float64
		n        int
	}{
		{50.2, 12.5, 64},
		{59.4, 12.5, 63}, // odd n
		{0, 1, 2},
	} {
		scores := ExactScores(tc.mean, tc.sd, tc.n)
		if len(scores) != tc.n {
			t.Fatalf("expected %d scores, got %d", tc.n, len(scores))
		}

		mean, _ := stats.Mean(scores)
		sd, _ := stats.StandardDeviationSample(scores)
		if math.Abs(mean-tc.mean) > 1e-9 {
			t.Fatalf("mean: got %.9f, want %g", mean, tc.mean)
		}
		if math.Abs(sd-tc.sd) > 1e-9 {
			t.Fatalf("sd: got %.9f, want %g", sd, tc.sd)
		}
	}
}

func TestGenerate_CanonicalStudy(t *testing.T) {
	ds, err := Generate(DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ds.Len() != 128 {
		t.Fatalf("expected 128 records, got %d", ds.Len())
	}

	levels, err := ds.Levels(ColGroup)
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if len(levels) != 2 || levels[0] != "Control" || levels[1] != "Program" {
		t.Fatalf("expected [Control Program], got %v", levels)
	}

	// 75% of 64 = 48 and 91% of 64 rounds to 58 "Yes" answers.
	followup, _ := ds.Categorical(ColFollowup)
	groups, _ := ds.Categorical(ColGroup)
	yes := map[string]int{}
	for i, f := range followup {
		if f == "Yes" {
			yes[groups[i]]++
		}
	}
	if yes["Control"] != 48 || yes["Program"] != 58 {
		t.Fatalf("expected 48/58 yes answers, got %d/%d", yes["Control"], yes["Program"])
	}
}

func TestGenerate_ShuffleIsSeeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shuffle = true
	cfg.Seed = 7

	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	ga, _ := a.Categorical(ColGroup)
	gb, _ := b.Categorical(ColGroup)
	for i := range ga {
		if ga[i] != gb[i] {
			t.Fatalf("same seed produced different row order at %d", i)
		}
	}
}

func TestGenerate_Validation(t *testing.T) {
	if _, err := Generate(Config{}); err == nil {
		t.Fatal("expected error for no groups")
	}
	cfg := Config{Groups: []GroupSpec{{Name: "A", Size: 1}}}
	if _, err := Generate(cfg); err == nil {
		t.Fatal("expected error for undersized group")
	}
	cfg = Config{Groups: []GroupSpec{{Name: "A", Size: 4, FollowupRate: 1.5}}}
	if _, err := Generate(cfg); err == nil {
		t.Fatal("expected error for follow-up rate above 1")
	}
}
