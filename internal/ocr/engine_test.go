package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner serves canned responses keyed on whether the invocation
// asked for TSV output.
type fakeRunner struct {
	text    string
	tsv     string
	textErr error
	tsvErr  error
}

func (r *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(r.tsv), nil, r.tsvErr
	}
	return []byte(r.text), nil, r.textErr
}

func tsvRow(conf string) string {
	return strings.Join([]string{"5", "1", "1", "1", "1", "1", "10", "10", "50", "20", "word", conf}, "\t")
}

func TestRecognizeNormalizesAndScores(t *testing.T) {
	runner := &fakeRunner{text: "AGREEMENT  OF   SALE\r\n\r\n\r\n\r\nThe seller conveys the property\t\tdescribed herein.  \n"}
	e := NewEngine(Config{}, runner, nil)

	res, err := e.Recognize(context.Background(), "page.png")
	require.NoError(t, err)

	assert.Equal(t, "AGREEMENT OF SALE\n\nThe seller conveys the property described herein.", res.Text)
	assert.Greater(t, res.Confidence, float32(0))
	assert.LessOrEqual(t, res.Confidence, float32(1))
}

func TestRecognizeTSVConfidence(t *testing.T) {
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\ttext\tconf",
		tsvRow("90"),
		tsvRow("70"),
		tsvRow("-1"), // non-word rows carry -1 and are skipped
		tsvRow("80"),
		"",
	}, "\n")
	runner := &fakeRunner{text: "The quick brown fox inspects the premises", tsv: tsv}
	e := NewEngine(Config{EnableTSVConfidence: true}, runner, nil)

	res, err := e.Recognize(context.Background(), "page.png")
	require.NoError(t, err)

	// mean(90, 70, 80) = 80 -> 0.8, blended 0.7 with the heuristic
	assert.Greater(t, res.Confidence, float32(0.6))
	assert.LessOrEqual(t, res.Confidence, float32(1))
}

func TestRecognizeTSVFailureFallsBackToHeuristic(t *testing.T) {
	runner := &fakeRunner{
		text:   "Readable text even though the confidence pass failed somehow",
		tsvErr: errors.New("boom"),
	}
	e := NewEngine(Config{EnableTSVConfidence: true}, runner, nil)

	res, err := e.Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Greater(t, res.Confidence, float32(0))
}

func TestRecognizePropagatesOCRFailure(t *testing.T) {
	runner := &fakeRunner{textErr: errors.New("tesseract exploded")}
	e := NewEngine(Config{}, runner, nil)

	_, err := e.Recognize(context.Background(), "page.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestEngineDefaults(t *testing.T) {
	e := NewEngine(Config{}, &fakeRunner{}, nil)
	assert.Equal(t, "eng", e.Language())
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a\r\nb\rc", "a\nb\nc"},
		{"col\t\tcol", "col col"},
		{"too    many spaces", "too many spaces"},
		{"one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"trailing   \nspaces  ", "trailing\nspaces"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in))
	}
}

func TestHeuristicConfidence(t *testing.T) {
	assert.Equal(t, float32(0), heuristicConfidence("   "))

	// Natural prose trips the wordlike and alphabetic bonuses.
	prose := "The tenant shall pay rent on the first day of each month during the term of this lease agreement without demand"
	garbage := "@@ ## $$$$$$$$$$$$$$$$$$$$$$$ %% ^^ && ** (( )) 11 22 33 44 55"

	assert.Greater(t, heuristicConfidence(prose), heuristicConfidence(garbage))
}
