package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"todo-board/model"
)

// Diagnostic is a non-fatal problem found while loading a slot.
type Diagnostic struct {
	Key     string
	Message string
	Err     error
}

func (d Diagnostic) String() string {
	if d.Err == nil {
		return fmt.Sprintf("%s: %s", d.Key, d.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", d.Key, d.Message, d.Err)
}

// Repository maps the app state onto two slots and implements app.Persister.
type Repository struct {
	slots Slots
}

func NewRepository(slots Slots) *Repository {
	return &Repository{slots: slots}
}

// Load reads both slots. Absent slots yield defaults; malformed slots are
// recovered from backups when the backend keeps them, otherwise defaulted,
// and reported as diagnostics. Only backend failures are returned as errors.
func (r *Repository) Load(ctx context.Context) (model.AppState, []Diagnostic, error) {
	state := model.NewState()
	var diags []Diagnostic

	diag, err := r.loadSlot(ctx, KeyTasks, func(text string) error {
		tasks, err := DecodeTasks(text)
		if err != nil {
			return err
		}
		state.Tasks = tasks
		return nil
	})
	if err != nil {
		return model.AppState{}, nil, err
	}
	if diag != nil {
		diags = append(diags, *diag)
	}

	diag, err = r.loadSlot(ctx, KeyDarkMode, func(text string) error {
		dark, err := DecodeDarkMode(text)
		if err != nil {
			return err
		}
		state.DarkMode = dark
		return nil
	})
	if err != nil {
		return model.AppState{}, nil, err
	}
	if diag != nil {
		diags = append(diags, *diag)
	}

	return state, diags, nil
}

func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	text, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	_, err = r.slots.Put(ctx, KeyTasks, text)
	return err
}

func (r *Repository) SaveDarkMode(ctx context.Context, dark bool) error {
	_, err := r.slots.Put(ctx, KeyDarkMode, EncodeDarkMode(dark))
	return err
}

// Exists reports whether key currently holds a record.
func (r *Repository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.slots.Get(ctx, key)
	if errors.Is(err, ErrSlotNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) Close() error {
	return r.slots.Close()
}

func (r *Repository) loadSlot(ctx context.Context, key string, decode func(string) error) (*Diagnostic, error) {
	rec, err := r.slots.Get(ctx, key)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	decodeErr := decode(rec.Value)
	if decodeErr == nil {
		return nil, nil
	}

	rc, ok := r.slots.(Recoverer)
	if !ok {
		return &Diagnostic{Key: key, Message: "stored data is malformed; starting with defaults", Err: decodeErr}, nil
	}

	moved, err := rc.Quarantine(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("quarantine corrupt %s: %w", key, err)
	}
	suffix := ""
	if moved != "" {
		suffix = fmt.Sprintf(" (corrupt data moved to %s)", filepath.Base(moved))
	}

	backups, err := rc.Backups(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("inspect %s backups: %w", key, err)
	}
	for _, b := range backups {
		if decode(b.Value) != nil {
			continue
		}
		if _, err := r.slots.Put(ctx, key, b.Value); err != nil {
			return nil, fmt.Errorf("restore %s backup: %w", key, err)
		}
		return &Diagnostic{
			Key:     key,
			Message: fmt.Sprintf("recovered from %s%s", filepath.Base(b.Source), suffix),
			Err:     decodeErr,
		}, nil
	}

	return &Diagnostic{
		Key:     key,
		Message: "stored data is malformed and no valid backup exists; starting with defaults" + suffix,
		Err:     decodeErr,
	}, nil
}
