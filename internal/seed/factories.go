// Package seed fills a development database with users, prompts and engagement. Every
// write goes through the repositories so maintained counters stay equal to their
// relations.
package seed

import (
	"fmt"
	"strings"
	"unicode"

	"promptly/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds unsaved users and prompts from fake data and the fixture templates.
type Factory struct {
	faker    *gofakeit.Faker
	fixtures *Fixtures
}

// NewFactory returns a factory. The same seed yields the same sequence of records; seed
// 0 picks a random one.
func NewFactory(fixtures *Fixtures, seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), fixtures: fixtures}
}

// BuildUser returns a user whose username and email are unique for distinct n.
func (f *Factory) BuildUser(n int, passwordHash string) *models.User {
	suffix := fmt.Sprintf("_%d", n)
	base := usernameSafe(f.faker.FirstName())
	if base == "" {
		base = "user"
	}
	if limit := 30 - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	username := base + suffix
	return &models.User{
		Username: username,
		Email:    username + "@seed.promptly.dev",
		Password: passwordHash,
	}
}

// BuildPrompt returns a prompt for author based on a random fixture template.
func (f *Factory) BuildPrompt(author *models.User) *models.Prompt {
	tpl := f.fixtures.Prompts[f.faker.Number(0, len(f.fixtures.Prompts)-1)]

	input := tpl.Input
	if strings.Contains(input, "{{topic}}") {
		input = strings.ReplaceAll(input, "{{topic}}", f.faker.RandomString(f.fixtures.Topics))
	}

	tags := append([]string(nil), tpl.Tags...)
	if f.faker.Bool() {
		tags = append(tags, strings.ToLower(f.faker.HackerNoun()))
	}

	return &models.Prompt{
		UserID:  author.ID,
		Title:   fmt.Sprintf("%s: %s", tpl.Title, f.faker.HackerAdjective()),
		Input:   input,
		Tags:    tags,
		AIModel: f.faker.RandomString(f.fixtures.Models),
		Output:  strings.TrimSpace(tpl.Output),
	}
}

// Chance reports true with the given percent probability.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Pick returns a random index below n.
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}

func usernameSafe(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
