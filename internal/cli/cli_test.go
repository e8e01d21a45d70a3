package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RULESET_PATH", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCmd(t *testing.T) {
	out, err := execute(t, `{
		"candidates": [
			{"hazard": "足元の段差で転倒", "likelihood": 1, "severity": 1, "category": "転倒"},
			{"hazard": "法面の崩壊", "likelihood": 4, "severity": 5, "category": "collapse"}
		],
		"context": {"third_party": "many", "worker_count": 20, "photo_score": 0.8,
			"work_description": "mortar spraying on the slope face"}
	}`, "score")
	require.NoError(t, err)

	var res domain.ScoreResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Results, 2)
	assert.Equal(t, 85.05, res.Results[0].FinalRisk)
	assert.Equal(t, domain.Trade("slope-work"), res.Trade)
}

func TestScoreCmd_BadInput(t *testing.T) {
	_, err := execute(t, `{"candidates": [`, "score", "-f", "-")
	assert.ErrorContains(t, err, "parse -")

	_, err = execute(t, "", "score", "-f", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read ")
}

func TestTriageCmd(t *testing.T) {
	baseline := writeFile(t, "baseline.txt", "・重機との接触")

	out, err := execute(t, "1. 足場からの墜落\n2. 足場からの墜落\n3. 重機との接触\n4. 足元に注意する",
		"triage", "--baseline", baseline)
	require.NoError(t, err)

	var res domain.TriageResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "足場からの墜落", res.Lines[0].Text)

	out, err = execute(t, "1. 足場からの墜落\n2. 重機との接触", "triage", "--limit", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Lines, 1)

	_, err = execute(t, "a line", "triage", "--threshold", "2")
	assert.Error(t, err)
}

func TestGenerateCmd(t *testing.T) {
	rules := writeFile(t, "ruleset.yaml", "triage:\n  limit: 3\n")
	hazards := writeFile(t, "hazards.txt", "- 吊り荷の落下による飛来災害\n- 吊り荷の落下による飛来災害")

	out, err := execute(t, "", "generate", "--ruleset", rules, "--work", "クレーンによる資材の荷揚げ", "--hazards", hazards)
	require.NoError(t, err)

	var res domain.GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Hazards, 3, "completed to the ruleset limit")
	assert.Equal(t, "吊り荷の落下による飛来災害", res.Hazards[0].Text)
	assert.Equal(t, domain.LineSourceModel, res.Hazards[0].Source)
	assert.NotEqual(t, domain.LineSourceModel, res.Hazards[1].Source)
	assert.Len(t, res.Countermeasures, 3)
}

func TestGenerateCmd_BaselineThirdParty(t *testing.T) {
	thirdParty := writeFile(t, "third.txt", "・歩行者を誘導員で迂回させる")
	args := []string{"generate", "--work", "歩道沿いの掘削", "--third-party", thirdParty}

	out, err := execute(t, "", args...)
	require.NoError(t, err)
	var res domain.GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"歩行者を誘導員で迂回させる"}, lineTexts(res.ThirdParty))

	out, err = execute(t, "", append(args, "--baseline-third-party", thirdParty)...)
	require.NoError(t, err)
	res = domain.GenerateResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.ThirdParty)
}

func lineTexts(lines []domain.ScoredLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestGenerateCmd_RequiresWork(t *testing.T) {
	_, err := execute(t, "", "generate")
	assert.ErrorContains(t, err, "--work")

	_, err = execute(t, "", "generate", "--work", "掘削", "--limit", "-1")
	assert.ErrorContains(t, err, "--limit")
}

func TestTablesCmd(t *testing.T) {
	out, err := execute(t, "", "tables")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# hash: sha256:"))
	assert.Contains(t, out, "version: builtin")

	rules := writeFile(t, "ruleset.yaml", "version: \"2024.2\"\n")
	out, err = execute(t, "", "tables", "--ruleset", rules)
	require.NoError(t, err)
	assert.Contains(t, out, "version: \"2024.2\"")

	_, err = execute(t, "", "tables", "--ruleset", writeFile(t, "bad.yaml", "triage:\n  limit: 0\n"))
	assert.ErrorContains(t, err, "load ruleset")
}
