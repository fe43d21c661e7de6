package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/bots-against-war/moduli/internal/validator"
	"github.com/bots-against-war/moduli/pkg/adapters/file"
	"github.com/bots-against-war/moduli/pkg/defaults"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
)

const sampleFlow = `{
	"entrypoints": [{"command": {"entrypoint_id": "command-start", "command": "start", "next_block_id": "greeting"}}],
	"blocks": [{"content": {"block_id": "greeting", "contents": [{"text": {"text": "Hi", "markup": "none"}, "attachments": []}], "next_block_id": null}}],
	"node_display_coords": {}
}`

func ptr(s string) *string { return &s }

// testCmd mirrors the root persistent flags on a standalone command.
func testCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("api", "", "")
	cmd.Flags().String("locale", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("log-format", "", "")
	cmd.Flags().String("env-file", filepath.Join(t.TempDir(), "missing.env"), "")
	addFlowSourceFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	cmd.SetContext(context.Background())
	return cmd
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, kv := range os.Environ() {
		if key, _, _ := strings.Cut(kv, "="); strings.HasPrefix(key, "STUDIO_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
	prefs := filepath.Join(t.TempDir(), "prefs.yaml")
	t.Setenv("STUDIO_PREFS_FILE", prefs)
	return prefs
}

func TestSetup_LocaleResolution(t *testing.T) {
	prefs := isolateEnv(t)

	a, err := setup(testCmd(t))
	require.NoError(t, err)
	assert.Equal(t, i18n.EN, a.locale)

	require.NoError(t, file.NewLocaleStore(prefs).Save(context.Background(), "ru"))
	a, err = setup(testCmd(t))
	require.NoError(t, err)
	assert.Equal(t, i18n.RU, a.locale)
	assert.Equal(t, "Сценарий корректен", a.t("cli.validate.ok"))

	a, err = setup(testCmd(t, "--locale", "en"))
	require.NoError(t, err)
	assert.Equal(t, i18n.EN, a.locale)
}

func TestSetup_FlagOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STUDIO_API_URL", "http://env.example/api")

	a, err := setup(testCmd(t, "--api", "http://flag.example/api", "--log-format", "json"))
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example/api", a.cfg.APIURL)
	assert.Equal(t, "json", a.cfg.LogFormat)
	assert.Equal(t, "http://flag.example/api", a.client().BaseURL())

	_, err = setup(testCmd(t, "--log-format", "xml"))
	assert.Error(t, err)
}

func TestLoadFlow_File(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bot.json"), []byte(sampleFlow), 0o644))

	cmd := testCmd(t)
	a, err := setup(cmd)
	require.NoError(t, err)

	flow, err := loadFlow(context.Background(), cmd, a, filepath.Join(dir, "bot"))
	require.NoError(t, err)
	assert.Len(t, flow.Blocks, 1)

	_, err = loadFlow(context.Background(), cmd, a, filepath.Join(dir, "other"))
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestLoadFlow_Bot(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config/my-bot" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token_secret_name": "t", "display_name": "My bot", "user_flow_config": ` + sampleFlow + `}`))
	}))
	defer srv.Close()

	cmd := testCmd(t, "--bot", "--api", srv.URL+"/api")
	a, err := setup(cmd)
	require.NoError(t, err)

	flow, err := loadFlow(context.Background(), cmd, a, "my-bot")
	require.NoError(t, err)
	assert.Equal(t, "command-start", flow.Entrypoints[0].Concrete().ID())

	_, err = loadFlow(context.Background(), cmd, a, "other-bot")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestWriteReport(t *testing.T) {
	en := i18n.Default().Translator(i18n.EN)
	var flow domain.UserFlowConfig
	require.NoError(t, json.Unmarshal([]byte(sampleFlow), &flow))

	var buf bytes.Buffer
	ok, err := writeReport(&buf, en, validator.Validate(&flow), false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Flow is valid ✅\n", buf.String())

	flow.Blocks[0].Content().NextBlockID = ptr("ghost")
	buf.Reset()
	ok, err = writeReport(&buf, en, validator.Validate(&flow), false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Flow has errors ❌\nfound 1 errors:\n- greeting: references missing block \"ghost\"")

	buf.Reset()
	ok, err = writeReport(&buf, en, validator.Validate(&flow), true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, gjson.Get(buf.String(), "ok").Bool())
	assert.Equal(t, "greeting", gjson.Get(buf.String(), "issues.0.node_id").String())
}

func TestRunNew(t *testing.T) {
	var buf bytes.Buffer
	err := runNew(&buf, "menu", defaults.Context{ID: "menu-1", Locale: i18n.EN})
	require.NoError(t, err)
	assert.Equal(t, "menu-1", gjson.Get(buf.String(), "menu.block_id").String())
	assert.Equal(t, string(domain.MechanismInlineButtons), gjson.Get(buf.String(), "menu.menu.config.mechanism").String())

	buf.Reset()
	require.NoError(t, runNew(&buf, "catch_all", defaults.Context{}))
	assert.True(t, strings.HasPrefix(gjson.Get(buf.String(), "catch_all.entrypoint_id").String(), "catch_all-"))

	err = runNew(&buf, "teleport", defaults.Context{ID: "x"})
	assert.ErrorContains(t, err, `unknown node type "teleport"`)
}

func TestReadSecret(t *testing.T) {
	s, err := readSecret(strings.NewReader("s3cret\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", s)

	s, err = readSecret(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", s)
}

func TestWriteLanguages(t *testing.T) {
	var buf bytes.Buffer
	writeLanguages(&buf, []domain.LanguageData{
		{Code: "ru", Name: "Russian", LocalName: ptr("Русский"), Emoji: ptr("🇷🇺")},
		{Code: "en", Name: "English", LocalName: ptr("English")},
	})
	assert.Equal(t, "ru   🇷🇺 Russian (Русский)\nen      English\n", buf.String())
}

func TestWriteBots(t *testing.T) {
	running := 3
	info := domain.BotInfo{
		BotID:          "my bot",
		DisplayName:    "My bot",
		RunningVersion: &running,
		LastVersions: []domain.BotVersionInfo{
			{Version: 3, Metadata: domain.BotConfigVersionMetadata{Message: ptr("fix typo")}},
			{Version: 2},
		},
		FormsWithResponses: []domain.FormInfoBasic{{FormBlockID: "form-1", Prompt: "Feedback"}},
	}

	var buf bytes.Buffer
	writeBotInfo(&buf, "https://studio.example", info)
	out := buf.String()
	assert.Contains(t, out, "My bot (my bot)\n")
	assert.Contains(t, out, "  v3  fix typo  (running)  https://studio.example/studio/my%20bot?version=3\n")
	assert.Contains(t, out, "  v2  https://studio.example/studio/my%20bot?version=2\n")
	assert.Contains(t, out, "  form form-1: Feedback  https://studio.example/forms/my%20bot/form-1\n")

	buf.Reset()
	writeBotList(&buf, "https://studio.example", map[string]domain.BotInfo{
		"b": {BotID: "b", DisplayName: "B"},
		"a": info,
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a "))
	assert.Contains(t, lines[0], "v3")
	assert.Contains(t, lines[1], "stopped")
	assert.True(t, strings.HasSuffix(lines[1], "https://studio.example/#b"))
}
