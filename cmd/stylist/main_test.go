package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "stylist version "+stylist.Version+"\n", run(t, "", "version"))
}

func TestOutfitsJSON(t *testing.T) {
	var outfits []domain.Outfit
	require.NoError(t, json.Unmarshal([]byte(run(t, "", "outfits", "--json")), &outfits))
	assert.Equal(t, domain.Catalog(), outfits)
}

func TestGraph(t *testing.T) {
	assert.True(t, strings.HasPrefix(run(t, "", "graph"), "graph TD\n"))
}

func TestChatThenSessions(t *testing.T) {
	t.Setenv("STYLIST_FLOW_ADVANCE_DELAY", "0s")
	dir := t.TempDir()
	common := []string{"--config", filepath.Join(dir, "missing.yaml"), "--env-file", filepath.Join(dir, "missing.env"), "--store-dir", dir, "--log-level", "error"}

	out := run(t, "\nexit\n", append([]string{"chat", "cli-user"}, common...)...)
	assert.Contains(t, out, domain.ScriptPhoto)

	out = run(t, "", append([]string{"session", "ls"}, common...)...)
	assert.Contains(t, out, "cli-user")

	out = run(t, "", append([]string{"session", "rm", "cli-user"}, common...)...)
	assert.Contains(t, out, "deleted")
}
