package assets

import "testing"

func TestLoad_AllBundlesPresent(t *testing.T) {
	names := []string{
		BundleSituationSummary,
		BundleStyleAnalysis,
		BundleReplySuggestion,
		BundleStyledReply,
		BundleTitleSuggestion,
		BundleExtendSuggestion,
	}
	for _, name := range names {
		b, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if b.Model == "" {
			t.Errorf("bundle %q has no model", name)
		}
		if b.System == "" {
			t.Errorf("bundle %q has no system prompt", name)
		}
		if b.Params.MaxTokens <= 0 {
			t.Errorf("bundle %q has no maxTokens", name)
		}
	}
}

func TestLoad_UnknownBundle(t *testing.T) {
	if _, err := Load("no-such-bundle"); err == nil {
		t.Error("Load of unknown bundle should fail")
	}
}
