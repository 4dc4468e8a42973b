package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ChangeKind is the closed set of change variants the inspector knows about.
type ChangeKind int

const (
	KindCustom ChangeKind = iota
	KindCreate
	KindJSONPatch
	KindDelete
	KindSetOrder
)

// String returns the string representation of the ChangeKind
func (k ChangeKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindJSONPatch:
		return "patch"
	case KindDelete:
		return "delete"
	case KindSetOrder:
		return "order"
	default:
		return "custom"
	}
}

// ErrMissingChangeType is returned when a stored change has no "$type" discriminator
var ErrMissingChangeType = errors.New("change has no $type discriminator")

// Change is a single decoded change payload
type Change struct {
	Kind ChangeKind
	Type TypeName
	Body json.RawMessage
}

// DisplayName returns the human-readable tag of the change variant
func (c Change) DisplayName() string {
	return c.Type.String()
}

// ObjectType returns the entity type the change targets, if the tag names one
func (c Change) ObjectType() string {
	if len(c.Type.Args) == 0 {
		return ""
	}
	return c.Type.Args[0].String()
}

// ChangeEntity is one change within a commit, ordered by Index
type ChangeEntity struct {
	Index    int
	CommitID uuid.UUID
	EntityID uuid.UUID
	Change   Change
}

// DecodeChange reads the "$type" discriminator of a stored change and classifies it
func DecodeChange(raw []byte) (Change, error) {
	var envelope struct {
		Type string `json:"$type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if strings.TrimSpace(envelope.Type) == "" {
		return Change{}, ErrMissingChangeType
	}

	t, err := ParseTypeName(envelope.Type)
	if err != nil {
		return Change{}, err
	}

	return Change{
		Kind: classify(t),
		Type: t,
		Body: json.RawMessage(raw),
	}, nil
}

func classify(t TypeName) ChangeKind {
	switch t.Name {
	case "JsonPatchChange":
		return KindJSONPatch
	case "DeleteChange":
		return KindDelete
	case "SetOrderChange":
		return KindSetOrder
	}
	if strings.HasPrefix(t.Name, "Create") {
		return KindCreate
	}
	return KindCustom
}
