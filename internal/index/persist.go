package index

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hamr-launcher/hamrd/internal/logging"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// onDiskItem is the serialized form of a single plugin's item map. Item and
// Frecency are both already plain JSON-friendly structs.
type onDiskItem struct {
	Item     types.ResultItem `json:"item"`
	Frecency types.Frecency   `json:"frecency"`
}

type onDiskStore struct {
	Version int                             `json:"version"`
	Plugins map[string]map[string]onDiskItem `json:"plugins"`
}

const currentVersion = 1

// Load reads the index from path. A missing file yields an empty store. A
// corrupt file is logged and also yields an empty store -- per spec §4.4 the
// on-disk file is never deleted or overwritten on a failed load, so whatever
// caused the corruption stays available for inspection and a later Save
// simply replaces it once the store has something worth persisting again.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		logging.Index().Warn().Err(err).Str("path", path).Msg("index: read failed, starting empty")
		return New(), err
	}

	var disk onDiskStore
	if err := json.Unmarshal(data, &disk); err != nil {
		logging.Index().Warn().Err(err).Str("path", path).Msg("index: corrupt index file, starting empty")
		return New(), err
	}

	s := New()
	for plugin, items := range disk.Plugins {
		bucket := make(map[string]*types.IndexItem, len(items))
		for id, raw := range items {
			item := raw.Item
			item.ID = id
			bucket[id] = &types.IndexItem{Item: item, Frecency: raw.Frecency}
		}
		s.byPlugin[plugin] = bucket
	}
	return s, nil
}

// Save writes the store to path atomically: a temp file in the same
// directory is written and fsynced, then renamed over path. This is the
// same write-temp-then-rename sequence the teacher's file-backed config
// provider uses to avoid ever leaving a half-written index on disk after a
// crash mid-write.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	disk := onDiskStore{Version: currentVersion, Plugins: make(map[string]map[string]onDiskItem, len(s.byPlugin))}
	for plugin, items := range s.byPlugin {
		bucket := make(map[string]onDiskItem, len(items))
		for id, item := range items {
			bucket[id] = onDiskItem{Item: item.Item, Frecency: item.Frecency}
		}
		disk.Plugins[plugin] = bucket
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(&disk, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	s.clearDirty()
	return nil
}
