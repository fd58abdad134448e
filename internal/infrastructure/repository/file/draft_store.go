package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

const (
	StateFileName = "state.json"
	PoolFileName  = "players.csv"
)

// DraftStore keeps the state record as JSON and the pool as CSV under one directory.
// Every file is replaced through a temp file and rename.
type DraftStore struct {
	mu        sync.Mutex
	dir       string
	canonical []string
	logger    *logging.Logger
}

func NewDraftStore(dir string, canonical []string, logger *logging.Logger) (*DraftStore, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &DraftStore{
		dir:       dir,
		canonical: append([]string(nil), canonical...),
		logger:    logger.Named("filestore"),
	}, nil
}

func (s *DraftStore) statePath() string { return filepath.Join(s.dir, StateFileName) }
func (s *DraftStore) poolPath() string  { return filepath.Join(s.dir, PoolFileName) }

func (s *DraftStore) LoadState(ctx context.Context) (draft.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return draft.Snapshot{}, false, nil
	}
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("read state file: %w", err)
	}

	doc := newStateDocument()
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("decode state file: %w", err)
	}
	snapshot, err := doc.snapshot(s.canonical)
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("decode state file: %w", err)
	}
	return snapshot, true, nil
}

func (s *DraftStore) SaveState(ctx context.Context, snapshot draft.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeState(snapshot)
}

func (s *DraftStore) LoadPool(ctx context.Context) ([]player.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.poolPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}

	rows, err := player.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode pool file: %w", err)
	}
	players, rejected := player.Ingest(rows)
	for _, r := range rejected {
		s.logger.WarnContext(ctx, "quarantined pool row", "file", s.poolPath(), "row", r.Row, "player", r.Name, "reason", r.Reason)
	}
	return players, nil
}

func (s *DraftStore) SavePool(ctx context.Context, players []player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writePool(players)
}

// Commit writes the state record first and the pool second. The state record holds
// the ledger, which is authoritative for sales; when the pool write fails the previous
// state record is put back so neither file moves.
func (s *DraftStore) Commit(ctx context.Context, snapshot draft.Snapshot, players []player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := os.ReadFile(s.statePath())
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read state file: %w", err)
	}

	if err := s.writeState(snapshot); err != nil {
		return err
	}
	if err := s.writePool(players); err != nil {
		if rbErr := s.rollbackState(prev, existed); rbErr != nil {
			s.logger.ErrorContext(ctx, "restore state file after failed pool write", "file", s.statePath(), "error", rbErr)
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func (s *DraftStore) rollbackState(prev []byte, existed bool) error {
	if !existed {
		if err := os.Remove(s.statePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove state file: %w", err)
		}
		return nil
	}
	if err := writeAtomic(s.statePath(), prev); err != nil {
		return fmt.Errorf("restore state file: %w", err)
	}
	return nil
}

func (s *DraftStore) writeState(snapshot draft.Snapshot) error {
	raw, err := sonic.ConfigStd.MarshalIndent(documentFromSnapshot(snapshot), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeAtomic(s.statePath(), raw); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (s *DraftStore) writePool(players []player.Player) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := player.WriteCSV(buf, players, player.Columns); err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	if err := writeAtomic(s.poolPath(), buf.Bytes()); err != nil {
		return fmt.Errorf("write pool file: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
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
