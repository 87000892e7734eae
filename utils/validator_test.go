package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDOI(t *testing.T) {
	assert.True(t, ValidateDOI("10.1000/xyz123"))
	assert.True(t, ValidateDOI(" 10.1112/plms/s2-42.1.230 "))
	assert.False(t, ValidateDOI("https://doi.org/10.1000/xyz123"))
	assert.False(t, ValidateDOI("10.12/short-prefix"))
	assert.False(t, ValidateDOI(""))
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://example.org/paper.pdf"))
	assert.True(t, ValidateURL("http://example.org"))
	assert.False(t, ValidateURL("ftp://example.org/file"))
	assert.False(t, ValidateURL("example.org/paper"))
}

func TestValidateOrcidID(t *testing.T) {
	assert.True(t, ValidateOrcidID("0000-0002-1694-233x"))
	assert.True(t, ValidateOrcidID("0000-0002-1825-0097"))
	assert.False(t, ValidateOrcidID("0000-0002-1825"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "alice", SanitizeInput("  al\x00ice "))
}
