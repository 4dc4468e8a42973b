package sqlite

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"harmonyscope/internal/domain"
)

var demoObjectTypes = []string{"Entry", "Sense", "ExampleSentence", "WritingSystem"}

// DemoOptions controls the generated history
type DemoOptions struct {
	Commits    int
	MaxChanges int
	Start      time.Time
	Seed       uint64
}

// WriteDemoHistory writes a plausible commit history in a single transaction.
// Commits are spaced a minute apart; every fifth commit shares the previous
// commit's wall clock and advances the logical counter instead.
func WriteDemoHistory(w *Writer, opts DemoOptions) (int, error) {
	if opts.MaxChanges <= 0 {
		opts.MaxChanges = 5
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	tx, err := w.BeginTx()
	if err != nil {
		return 0, err
	}

	clients := []uuid.UUID{newUUID(rng), newUUID(rng)}
	entities := make(map[string][]uuid.UUID)
	parent := ""
	when := opts.Start.UTC()
	var counter int64
	changes := 0

	for i := range opts.Commits {
		if i > 0 && i%5 == 0 {
			counter++
		} else {
			when = when.Add(time.Minute)
			counter = 0
		}

		commit := &domain.Commit{
			ID:         newUUID(rng),
			ParentHash: parent,
			ClientID:   clients[i%len(clients)],
			Timestamp:  domain.HybridTime{DateTime: when, Counter: counter},
		}
		commit.Hash = demoHash(parent, commit.ID)
		if err := tx.InsertCommit(commit); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert commit %d: %w", i, err)
		}

		// some commits carry no changes at all
		n := rng.IntN(opts.MaxChanges + 1)
		for index := range n {
			objectType := demoObjectTypes[rng.IntN(len(demoObjectTypes))]
			entityID, body := demoChange(rng, objectType, entities)
			if err := tx.InsertChange(commit.ID, index, entityID, body); err != nil {
				tx.Rollback()
				return 0, fmt.Errorf("insert change %d of commit %d: %w", index, i, err)
			}
			changes++
		}
		parent = commit.Hash
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return changes, nil
}

func demoChange(rng *rand.Rand, objectType string, entities map[string][]uuid.UUID) (uuid.UUID, json.RawMessage) {
	known := entities[objectType]
	if len(known) == 0 || rng.IntN(3) == 0 {
		id := newUUID(rng)
		entities[objectType] = append(known, id)
		body, _ := json.Marshal(map[string]any{
			"$type":    "Create" + objectType + "Change",
			"EntityId": id,
		})
		return id, body
	}

	id := known[rng.IntN(len(known))]
	var body map[string]any
	switch rng.IntN(3) {
	case 0:
		body = map[string]any{
			"$type":         fmt.Sprintf("JsonPatchChange<%s>", objectType),
			"EntityId":      id,
			"PatchDocument": []map[string]any{{"op": "replace", "path": "/Note", "value": "edited"}},
		}
	case 1:
		body = map[string]any{
			"$type":    fmt.Sprintf("SetOrderChange<%s>", objectType),
			"EntityId": id,
			"Order":    rng.Float64() * 10,
		}
	default:
		body = map[string]any{
			"$type":    fmt.Sprintf("DeleteChange<%s>", objectType),
			"EntityId": id,
		}
	}
	raw, _ := json.Marshal(body)
	return id, raw
}

func newUUID(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
	id, _ := uuid.FromBytes(b[:])
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

func demoHash(parent string, id uuid.UUID) string {
	h := sha256.Sum256([]byte(parent + id.String()))
	return hex.EncodeToString(h[:])
}
