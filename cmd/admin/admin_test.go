package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptly/internal/config"
	"promptly/internal/models"
	"promptly/internal/repository"
	"promptly/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteOpener(db *gorm.DB) opener {
	return func() (*session, error) {
		return &session{db: db, cfg: &config.Config{LeaderboardDefaultLimit: 2}, close: func() {}}, nil
	}
}

func execute(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func createPrompt(t *testing.T, db *gorm.DB, author *models.User, title string) {
	t.Helper()
	p := &models.Prompt{UserID: author.ID, Title: title, Input: "in", Tags: []string{"AI"}, AIModel: "gpt-4o", Output: "out"}
	require.NoError(t, repository.NewPromptRepository(db).CreateWithAuthorCount(context.Background(), p))
}

func TestAudit_Clean(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	author := testutil.CreateUser(t, db, "author")
	createPrompt(t, db, author, "One")

	out, err := execute(t, sqliteOpener(db), "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "all counters match")
}

func TestAudit_ReportsDrift(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	author := testutil.CreateUser(t, db, "author")
	p := testutil.InsertPrompt(t, db, author.ID, "Uncounted")
	require.NoError(t, db.Model(&models.Prompt{}).Where("id = ?", p.ID).Update("like_count", 4).Error)

	out, err := execute(t, sqliteOpener(db), "audit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDrift))
	assert.Contains(t, out, "total_prompts")
	assert.Contains(t, out, "like_count")

	out, err = execute(t, sqliteOpener(db), "audit", "--json")
	require.Error(t, err)
	var drift []repository.CounterDrift
	require.NoError(t, json.Unmarshal([]byte(out), &drift))
	require.Len(t, drift, 2)
	for _, d := range drift {
		switch d.Column {
		case "total_prompts":
			assert.EqualValues(t, 0, d.Stored)
			assert.EqualValues(t, 1, d.Expected)
		case "like_count":
			assert.EqualValues(t, 4, d.Stored)
			assert.EqualValues(t, 0, d.Expected)
		default:
			t.Fatalf("unexpected drift %+v", d)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "carol")
	createPrompt(t, db, bob, "B1")
	createPrompt(t, db, alice, "A1")
	createPrompt(t, db, alice, "A2")

	out, err := execute(t, sqliteOpener(db), "leaderboard")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "alice")
	assert.Contains(t, lines[2], "bob")

	out, err = execute(t, sqliteOpener(db), "leaderboard", "-n", "1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAPICheck_BuiltInDocsCoverBase(t *testing.T) {
	base := writeDoc(t, `
paths:
  /prompts/{id}/like:
    parameters:
      - name: id
        in: path
    post:
      responses:
        "200": {description: OK}
        "404": {description: Not Found}
`)
	out, err := execute(t, nil, "apicheck", "--base", base)
	require.NoError(t, err, out)
	assert.Contains(t, out, "passed")
}

func TestAPICheck_ReportsRemovals(t *testing.T) {
	base := writeDoc(t, `
paths:
  /legacy:
    get:
      responses: {"200": {description: OK}}
  /items:
    get:
      responses: {"200": {description: OK}, "404": {description: Not Found}}
    delete:
      responses: {"204": {description: gone}}
`)
	revision := writeDoc(t, `{"paths": {"/items": {"get": {"responses": {"200": {"description": "OK"}}}}}}`)

	out, err := execute(t, nil, "apicheck", "--base", base, "--revision", revision)
	require.Error(t, err)
	assert.Contains(t, out, "removed path: /legacy")
	assert.Contains(t, out, "removed operation: DELETE /items")
	assert.Contains(t, out, "removed response code: GET /items -> 404")
}

func TestParseSurface_MissingPaths(t *testing.T) {
	_, err := parseSurface([]byte("swagger: '2.0'\n"))
	assert.Error(t, err)
}
