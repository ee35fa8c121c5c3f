package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kaybrian/Water-Quality-Model/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "warn")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("output = %q", buf.String())
	}

	buf.Reset()
	log = logging.New(&buf, "bogus")
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	if strings.Contains(buf.String(), "debug") || !strings.Contains(buf.String(), "info") {
		t.Fatalf("fallback output = %q", buf.String())
	}
}
