package hardcover

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMe(t *testing.T) {
	object := json.RawMessage(`{"username":"alice","name":"Alice"}`)
	list := json.RawMessage(`[{"username":"alice","name":"Alice"}]`)

	// The API returns "me" as either an object or a one-element list;
	// both must normalize to the same record.
	assert.Equal(t, NormalizeMe(object), NormalizeMe(list))
	assert.Equal(t, "alice", NormalizeMe(list).Username)
}

func TestNormalizeMeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"nil", nil},
		{"null", json.RawMessage(`null`)},
		{"empty list", json.RawMessage(`[]`)},
		{"scalar", json.RawMessage(`42`)},
		{"garbage", json.RawMessage(`{broken`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Me{}, NormalizeMe(tt.raw))
		})
	}
}

func TestNormalizeMeNestedRecords(t *testing.T) {
	raw := json.RawMessage(`{
		"username": "alice",
		"currently_reading": [{
			"id": 7,
			"rating": 4,
			"user_book_reads": [{"started_at": "2024-03-01", "progress": 120}],
			"book": {
				"title": "Der Prozess",
				"slug": "der-prozess",
				"pages": 255,
				"contributions": [{"author": {"name": "Franz Kafka"}}]
			}
		}]
	}`)

	me := NormalizeMe(raw)
	assert.Len(t, me.CurrentlyReading, 1)

	ub := me.CurrentlyReading[0]
	assert.Equal(t, int64(7), ub.ID)
	assert.NotNil(t, ub.Rating)
	assert.Equal(t, 4.0, *ub.Rating)
	assert.Equal(t, "Der Prozess", ub.Book.Title)
	assert.Equal(t, 255, *ub.Book.Pages)
	assert.Equal(t, "Franz Kafka", ub.Book.Contributions[0].Author.Name)
	assert.Equal(t, 120.0, *ub.Reads[0].Progress)
}
