package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChange(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantKind   ChangeKind
		wantName   string
		wantObject string
	}{
		{
			name:       "json patch",
			raw:        `{"$type":"JsonPatchChange<Entry>","PatchDocument":[]}`,
			wantKind:   KindJSONPatch,
			wantName:   "JsonPatchChange<Entry>",
			wantObject: "Entry",
		},
		{
			name:       "delete",
			raw:        `{"$type":"DeleteChange<Sense>"}`,
			wantKind:   KindDelete,
			wantName:   "DeleteChange<Sense>",
			wantObject: "Sense",
		},
		{
			name:       "set order",
			raw:        `{"$type":"SetOrderChange<Sense>","Order":1.5}`,
			wantKind:   KindSetOrder,
			wantName:   "SetOrderChange<Sense>",
			wantObject: "Sense",
		},
		{
			name:     "create",
			raw:      `{"$type":"CreateEntryChange","LexemeForm":{"en":"apple"}}`,
			wantKind: KindCreate,
			wantName: "CreateEntryChange",
		},
		{
			name:     "custom",
			raw:      `{"$type":"AddTranslationChange"}`,
			wantKind: KindCustom,
			wantName: "AddTranslationChange",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeChange([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.wantName, c.DisplayName())
			assert.Equal(t, tt.wantObject, c.ObjectType())
			assert.JSONEq(t, tt.raw, string(c.Body))
		})
	}
}

func TestDecodeChange_Errors(t *testing.T) {
	_, err := DecodeChange([]byte(`{"Order":1}`))
	assert.True(t, errors.Is(err, ErrMissingChangeType))

	_, err = DecodeChange([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeChange([]byte(`{"$type":"Box<"}`))
	assert.Error(t, err)
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "create", KindCreate.String())
	assert.Equal(t, "patch", KindJSONPatch.String())
	assert.Equal(t, "delete", KindDelete.String())
	assert.Equal(t, "order", KindSetOrder.String())
	assert.Equal(t, "custom", KindCustom.String())
}

func TestNewTypeCatalog(t *testing.T) {
	var types []TypeName
	for _, tag := range []string{"DeleteChange<Sense>", "JsonPatchChange<Entry>", "DeleteChange<Sense>", "CreateEntryChange", "DeleteChange<Entry>"} {
		tn, err := ParseTypeName(tag)
		require.NoError(t, err)
		types = append(types, tn)
	}

	catalog := NewTypeCatalog(types)
	assert.Equal(t, []string{"CreateEntryChange", "DeleteChange<Entry>", "DeleteChange<Sense>", "JsonPatchChange<Entry>"}, catalog.ChangeTypes)
	assert.Equal(t, []string{"Entry", "Sense"}, catalog.ObjectTypes)
}
