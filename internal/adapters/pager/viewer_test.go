package pager

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewer(env map[string]string, found ...string) *Viewer {
	return &Viewer{
		getenv: func(key string) string { return env[key] },
		lookPath: func(name string) (string, error) {
			for _, f := range found {
				if f == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", errors.New("not found")
		},
	}
}

func TestViewer_FindPager(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		found []string
		want  []string
	}{
		{name: "PAGER with arguments", env: map[string]string{"PAGER": "bat --plain"}, want: []string{"bat", "--plain"}},
		{name: "less fallback", found: []string{"less", "more"}, want: []string{"/usr/bin/less", "-R"}},
		{name: "more fallback", found: []string{"more"}, want: []string{"/usr/bin/more"}},
		{name: "nothing available", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testViewer(tt.env, tt.found...).findPager())
		})
	}
}

func TestViewer_CommandWritesIndentedDocument(t *testing.T) {
	v := testViewer(map[string]string{"PAGER": "cat"})

	cmd, cleanup, err := v.Command("JsonPatchChange<Entry>", []byte(`{"$type":"JsonPatchChange<Entry>","EntityId":"x"}`))
	require.NoError(t, err)

	path := cmd.Args[len(cmd.Args)-1]
	assert.Contains(t, path, "JsonPatchChange_Entry_")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"$type\": \"JsonPatchChange<Entry>\",\n  \"EntityId\": \"x\"\n}\n", string(data))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestViewer_CommandKeepsInvalidJSON(t *testing.T) {
	v := testViewer(map[string]string{"PAGER": "cat"})

	cmd, cleanup, err := v.Command("raw", []byte("not json"))
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(cmd.Args[len(cmd.Args)-1])
	require.NoError(t, err)
	assert.Equal(t, "not json\n", string(data))
}

func TestViewer_NoPager(t *testing.T) {
	_, _, err := testViewer(nil).Command("x", []byte("{}"))
	assert.Error(t, err)
}
