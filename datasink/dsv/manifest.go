package dsv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
)

// ManifestName is the name of the marker object written once output has been committed
const ManifestName = "_SUCCESS"

// ShardInfo describes one committed output file
type ShardInfo struct {
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Bytes    int64  `json:"bytes"`
	Checksum string `json:"xxhash64"`
}

// Manifest describes a committed output
type Manifest struct {
	RunID       string      `json:"run_id"`
	Columns     []string    `json:"columns"`
	Shards      []ShardInfo `json:"shards"`
	CompletedAt time.Time   `json:"completed_at"`
}

// NumRows returns the total number of rows across all shards
func (m *Manifest) NumRows() int {
	rows := 0
	for _, s := range m.Shards {
		rows += s.Rows
	}
	return rows
}

func writeManifest(ctx context.Context, bucket *blob.Bucket, key string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: "application/json"})
}

// ParseManifest reads a Manifest from its JSON representation
func ParseManifest(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("manifest is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	m := &Manifest{
		RunID:   doc.Get("run_id").String(),
		Columns: []string{},
		Shards:  []ShardInfo{},
	}
	doc.Get("columns").ForEach(func(_, col gjson.Result) bool {
		m.Columns = append(m.Columns, col.String())
		return true
	})
	doc.Get("shards").ForEach(func(_, shard gjson.Result) bool {
		m.Shards = append(m.Shards, ShardInfo{
			Name:     shard.Get("name").String(),
			Rows:     int(shard.Get("rows").Int()),
			Bytes:    shard.Get("bytes").Int(),
			Checksum: shard.Get("xxhash64").String(),
		})
		return true
	})
	if completed := doc.Get("completed_at"); completed.Exists() {
		t, err := time.Parse(time.RFC3339Nano, completed.String())
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at: %w", err)
		}
		m.CompletedAt = t
	}
	return m, nil
}

// ReadManifest reads the Manifest of a committed output
func ReadManifest(ctx context.Context, bucket *blob.Bucket, key string) (*Manifest, error) {
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}
