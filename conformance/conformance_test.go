package conformance

import (
	"testing"
)

func TestConformance(t *testing.T) {
	cases, err := LoadAll()
	if err != nil {
		t.Fatalf("failed to load scenarios: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no scenarios loaded")
	}

	runner := NewRunner()

	fileGroups := make(map[string][]LoadedCase)
	for _, lc := range cases {
		fileGroups[lc.File] = append(fileGroups[lc.File], lc)
	}

	for file, group := range fileGroups {
		t.Run(file, func(t *testing.T) {
			for _, lc := range group {
				lc := lc
				t.Run(lc.Case.Name, func(t *testing.T) {
					result := runner.Run(lc)
					if result.Skipped {
						t.Skip(result.SkipReason)
						return
					}
					if result.Error != nil {
						t.Fatalf("scenario error: %v", result.Error)
					}
					if !result.Passed {
						t.Fatalf("order mismatch:\n got:  %v\n want: %v", result.Got, lc.Case.Expect.Order)
					}
				})
			}
		})
	}
}
