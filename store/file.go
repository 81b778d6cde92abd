package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultMaxBackups = 10

// slotMeta is the sidecar kept next to each slot file.
type slotMeta struct {
	Version   int64     `yaml:"version"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// FileSlots stores each key as <dir>/<key>.json with a YAML sidecar.
// Writes go through a temp file and a rename; the previous value is kept
// as <key>.json.bak plus a rotating set of timestamped backups.
type FileSlots struct {
	dir        string
	maxBackups int
	now        func() time.Time
}

func NewFileSlots(dir string, maxBackups int) (*FileSlots, error) {
	if dir == "" {
		return nil, errors.New("file storage dir is empty")
	}
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileSlots{dir: dir, maxBackups: maxBackups, now: time.Now}, nil
}

// Dir returns the data directory.
func (s *FileSlots) Dir() string {
	return s.dir
}

func (s *FileSlots) Get(_ context.Context, key string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrSlotNotFound
		}
		return Record{}, err
	}

	rec := Record{Key: key, Value: string(data), Source: path}
	meta, err := s.readMeta(key)
	if err == nil {
		rec.Version = meta.Version
		rec.UpdatedAt = meta.UpdatedAt
	} else if info, statErr := os.Stat(path); statErr == nil {
		rec.UpdatedAt = info.ModTime().UTC()
	}
	return rec, nil
}

func (s *FileSlots) Put(_ context.Context, key, value string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	path := s.path(key)
	if err := s.backup(path); err != nil {
		return Record{}, fmt.Errorf("backup %s: %w", filepath.Base(path), err)
	}
	if err := writeAtomic(path, []byte(value)); err != nil {
		return Record{}, err
	}

	meta, err := s.readMeta(key)
	if err != nil {
		meta = slotMeta{}
	}
	meta.Version++
	meta.UpdatedAt = s.now().UTC()
	data, err := yaml.Marshal(meta)
	if err != nil {
		return Record{}, err
	}
	if err := writeAtomic(s.metaPath(key), data); err != nil {
		return Record{}, err
	}

	return Record{
		Key:       key,
		Value:     value,
		Version:   meta.Version,
		UpdatedAt: meta.UpdatedAt,
		Source:    path,
	}, nil
}

func (s *FileSlots) Close() error {
	return nil
}

// Backups returns the latest and rotating backups of key, newest first.
func (s *FileSlots) Backups(_ context.Context, key string) ([]Record, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	path := s.path(key)
	candidates := make([]string, 0, s.maxBackups+1)
	if _, err := os.Stat(path + ".bak"); err == nil {
		candidates = append(candidates, path+".bak")
	}
	rotating, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(rotating)))
	candidates = append(candidates, rotating...)

	out := make([]Record, 0, len(candidates))
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		rec := Record{Key: key, Value: string(data), Source: candidate}
		if info, err := os.Stat(candidate); err == nil {
			rec.UpdatedAt = info.ModTime().UTC()
		}
		out = append(out, rec)
	}
	return out, nil
}

// Quarantine renames the current slot file to <key>.corrupt-<ts>.json.
// It returns "" when there is nothing to move.
func (s *FileSlots) Quarantine(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	path := s.path(key)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	timestamp := s.now().UTC().Format("20060102-150405")
	corruptPath := filepath.Join(s.dir, fmt.Sprintf("%s.corrupt-%s.json", key, timestamp))
	if err := os.Rename(path, corruptPath); err != nil {
		return "", err
	}
	return corruptPath, nil
}

func (s *FileSlots) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileSlots) metaPath(key string) string {
	return filepath.Join(s.dir, key+".meta.yaml")
}

func (s *FileSlots) readMeta(key string) (slotMeta, error) {
	data, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return slotMeta{}, err
	}
	var meta slotMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return slotMeta{}, err
	}
	return meta, nil
}

func (s *FileSlots) backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return err
	}

	timestamp := s.now().UTC().Format("20060102-150405.000000000")
	rotatingPath := fmt.Sprintf("%s.bak.%s", path, timestamp)
	if err := os.WriteFile(rotatingPath, data, 0o644); err != nil {
		return err
	}

	return s.pruneRotatingBackups(path)
}

func (s *FileSlots) pruneRotatingBackups(path string) error {
	files, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return err
	}
	if len(files) <= s.maxBackups {
		return nil
	}

	sort.Strings(files)
	for _, old := range files[:len(files)-s.maxBackups] {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
