package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type credentialCase struct {
	name    string
	input   string
	wantErr bool
}

func runCredentialCases(t *testing.T, validate func(string) error, cases []credentialCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate(tc.input)
			if tc.wantErr {
				assert.Error(t, err, tc.input)
				return
			}
			assert.NoError(t, err, tc.input)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	runCredentialCases(t, ValidatePassword, []credentialCase{
		{"accepted", "Prompt$mith2026", false},
		{"min length", "Abcdefgh12#x", false},
		{"max length", "P" + strings.Repeat("q", 125) + "9?", false},
		{"non ascii letters", "ÉcritureFine9!", false},
		{"eleven chars", "Abcdefg12#x", true},
		{"129 chars", "P" + strings.Repeat("q", 126) + "9?", true},
		{"lowercase only letters", "prompt$mith2026", true},
		{"uppercase only letters", "PROMPT$MITH2026", true},
		{"missing digit", "Prompt$mithing", true},
		{"missing symbol", "PromptSmith2026", true},
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	runCredentialCases(t, ValidateUsername, []credentialCase{
		{"letters digits underscore", "prompt_smith42", false},
		{"inner hyphen", "a-b", false},
		{"two chars", "ab", true},
		{"31 chars", strings.Repeat("a", 31), true},
		{"space", "bad name", true},
		{"at sign", "me@home", true},
		{"leading underscore", "_name", true},
		{"trailing hyphen", "name-", true},
	})
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 64 local + "@" + 185 label + ".com" = 254
	longest := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	runCredentialCases(t, ValidateEmail, []credentialCase{
		{"plain", "writer@example.com", false},
		{"254 chars", longest, false},
		{"255 chars", "a" + longest, true},
		{"no at", "not-an-email", true},
		{"no domain", "writer@", true},
		{"double at", "writer@@example.com", true},
		{"space", "wri ter@example.com", true},
		{"trailing dot", "writer@example.com.", true},
	})
}
