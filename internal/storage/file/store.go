// Package file implements the account store as a single JSON document.
//
// Layout (accounts in creation order, history oldest first):
//
//	{
//	    "Aiko": {
//	        "poin": 20,
//	        "history": ["Setor 2 kg plastik (+70 poin)", "Tukar poin: Pulsa 20.000 (-50 poin)"]
//	    }
//	}
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
)

// Store persists snapshots to a JSON file, replacing it atomically on every save.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

type fileAccount struct {
	Poin    *float64 `json:"poin"`
	History []string `json:"history"`
}

type namedAccount struct {
	name    string
	account fileAccount
}

// orderedAccounts encodes as a JSON object whose keys keep slice order.
type orderedAccounts []namedAccount

func (o orderedAccounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.account)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// New creates a store backed by the file at path. The file does not need to exist.
func New(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger, now: time.Now}
}

// Path returns the store location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty snapshot. A corrupt
// file is moved aside to <path>.corrupt-<unix nanos> so it is never overwritten,
// and an empty snapshot is returned with ErrPersistenceCorrupt.
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}

	snapshot, decodeErr := decode(data)
	if decodeErr == nil {
		return snapshot, nil
	}

	quarantine := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().UnixNano())
	if err := os.Rename(s.path, quarantine); err != nil {
		s.logger.Error("move corrupt store aside failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return model.NewSnapshot(), fmt.Errorf("%w: %s: %v (left in place: %v)",
			domainErrors.ErrPersistenceCorrupt, s.path, decodeErr, err)
	}
	s.logger.Warn("corrupt store moved aside",
		slog.String("path", s.path),
		slog.String("quarantine", quarantine),
		slog.String("error", decodeErr.Error()),
	)
	return model.NewSnapshot(), fmt.Errorf("%w: %s: %v (moved to %s)",
		domainErrors.ErrPersistenceCorrupt, s.path, decodeErr, quarantine)
}

// Save writes the snapshot to a temporary file in the same directory and renames it over the store.
func (s *Store) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(snapshot)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domainErrors.ErrPersistenceWrite, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %s: %w", domainErrors.ErrPersistenceWrite, s.path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	if d, openErr := os.Open(dir); openErr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func encode(snapshot *model.Snapshot) ([]byte, error) {
	accounts := make(orderedAccounts, 0, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		balance := a.Balance
		history := make([]string, 0, len(a.History))
		for _, tx := range a.History {
			history = append(history, tx.Description)
		}
		accounts = append(accounts, namedAccount{
			name:    a.Name,
			account: fileAccount{Poin: &balance, History: history},
		})
	}
	data, err := json.MarshalIndent(accounts, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(data []byte) (*model.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	snapshot := model.NewSnapshot()
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		if strings.TrimSpace(name) == "" || name != strings.TrimSpace(name) {
			return nil, fmt.Errorf("invalid account name %q", name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate account %q", name)
		}
		seen[name] = struct{}{}

		var fa fileAccount
		if err := dec.Decode(&fa); err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		acc, err := toAccount(name, fa)
		if err != nil {
			return nil, err
		}
		snapshot.Accounts = append(snapshot.Accounts, acc)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after store object")
	}
	return snapshot, nil
}

func toAccount(name string, fa fileAccount) (*model.Account, error) {
	if fa.Poin == nil {
		return nil, fmt.Errorf("account %q: missing poin", name)
	}
	balance := *fa.Poin
	if math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return nil, fmt.Errorf("account %q: invalid balance %v", name, balance)
	}

	history := make([]model.Transaction, 0, len(fa.History))
	for _, description := range fa.History {
		tx, err := model.ParseTransaction(description)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		history = append(history, tx)
	}
	return &model.Account{Name: name, Balance: balance, History: history}, nil
}
