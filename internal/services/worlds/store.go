package worlds

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// worldTable is the decoded registry file. It keeps first-seen key order so
// List and the rewritten file follow insertion order.
type worldTable struct {
	order []string
	seeds map[string]int64
}

func newWorldTable() *worldTable {
	return &worldTable{seeds: make(map[string]int64)}
}

func (t *worldTable) get(name string) (int64, bool) {
	s, ok := t.seeds[name]
	return s, ok
}

func (t *worldTable) upsert(name string, seed int64) {
	if _, ok := t.seeds[name]; !ok {
		t.order = append(t.order, name)
	}
	t.seeds[name] = seed
}

func (t *worldTable) remove(name string) bool {
	if _, ok := t.seeds[name]; !ok {
		return false
	}
	delete(t.seeds, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *worldTable) list() []World {
	out := make([]World, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, World{Name: n, Seed: t.seeds[n]})
	}
	return out
}

// load reads the registry file. A missing file is an empty registry. So is a
// corrupt one: it is logged and the next mutation overwrites it.
func (r *Registry) load() (*worldTable, error) {
	tbl := newWorldTable()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tbl, nil
	}
	if err != nil {
		zap.L().Error("worlds.load", zap.String("path", r.path), zap.Error(err))
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, r.path, err)
	}

	if !gjson.ValidBytes(data) {
		zap.L().Warn("worlds.load_corrupt", zap.String("path", r.path))
		return tbl, nil
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		zap.L().Warn("worlds.load_corrupt", zap.String("path", r.path),
			zap.String("reason", "top level is not an object"))
		return tbl, nil
	}

	doc.ForEach(func(key, value gjson.Result) bool {
		seed, err := strconv.ParseInt(value.Raw, 10, 64)
		if value.Type != gjson.Number || err != nil {
			zap.L().Warn("worlds.load_skip_entry",
				zap.String("world", key.String()), zap.String("value", value.Raw))
			return true
		}
		tbl.upsert(key.String(), seed)
		return true
	})
	return tbl, nil
}

// store rewrites the whole file through a temp file + rename.
func (r *Registry) store(tbl *worldTable) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range tbl.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("%w: encode %q: %v", ErrPersistence, name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(tbl.seeds[name], 10))
	}
	buf.WriteByte('}')
	out := pretty.Pretty(buf.Bytes())

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".worlds-*.tmp")
	if err != nil {
		return r.storeFailed(err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return r.storeFailed(err)
	}
	if err := tmp.Close(); err != nil {
		return r.storeFailed(err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return r.storeFailed(err)
	}
	return nil
}

func (r *Registry) storeFailed(err error) error {
	zap.L().Error("worlds.store", zap.String("path", r.path), zap.Error(err))
	return fmt.Errorf("%w: write %s: %v", ErrPersistence, r.path, err)
}
