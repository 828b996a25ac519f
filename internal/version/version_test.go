package version_test

import (
	"strings"
	"testing"

	"github.com/DarkDrek/cretonne/internal/version"
)

func TestNumber_IsSemantic(t *testing.T) {
	if strings.Count(version.Number, ".") != 2 {
		t.Errorf("Number %q is not a dotted three-part version", version.Number)
	}
}

func TestPretty_KeepsComponents(t *testing.T) {
	pretty := version.Pretty()
	for _, part := range strings.Split(version.Number, ".") {
		if !strings.Contains(pretty, part) {
			t.Errorf("Pretty() %q lost component %q", pretty, part)
		}
	}
}
