package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"harmonyscope/internal/application"
)

func TestRun_RequiresStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HARMONYSCOPE_DB", "")

	code, err := run(nil)
	var valErr *application.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, 1, code)

	code, err = run([]string{"--bogus"})
	assert.NoError(t, err)
	assert.Equal(t, 1, code)
}
