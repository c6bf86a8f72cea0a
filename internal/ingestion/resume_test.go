package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentscout/hiring-assistant/internal/types"
)

func TestExtractTextPlainText(t *testing.T) {
	body := "Ada Lovelace\n\n  ada@example.com  \n\nSkills: Go, PostgreSQL\n"
	text, err := ExtractText(strings.NewReader(body), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\nada@example.com\nSkills: Go, PostgreSQL", text)
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	_, err := ExtractText(strings.NewReader("x"), "resume.exe")
	require.Error(t, err)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "resume", verr.Field)
}

func TestExtractTextEmptyDocument(t *testing.T) {
	_, err := ExtractText(strings.NewReader("   \n\n  "), "resume.txt")
	require.Error(t, err)
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("cv.PDF"))
	assert.True(t, SupportedExtension("cv.docx"))
	assert.False(t, SupportedExtension("cv.png"))
	assert.False(t, SupportedExtension("cv"))
}
