package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"batch-ledger/internal/domain"

	"go.uber.org/zap"
)

// SessionPolicy decides what an end-of-session record does to the stream.
type SessionPolicy string

const (
	// SessionSkip treats 00 records as separators between sessions.
	SessionSkip SessionPolicy = "skip"
	// SessionStop ends the stream at the first 00 record.
	SessionStop SessionPolicy = "stop"
)

// Options tunes how the repository reads and writes files.
type Options struct {
	SessionPolicy     SessionPolicy
	CurrentActiveOnly bool
}

// FileRepository implements the AccountRepository interface for flat files.
type FileRepository struct {
	codec  *Codec
	opts   Options
	logger *zap.Logger
}

// NewFileRepository creates a new repository instance.
func NewFileRepository(codec *Codec, opts Options, logger *zap.Logger) *FileRepository {
	if opts.SessionPolicy == "" {
		opts.SessionPolicy = SessionSkip
	}
	return &FileRepository{codec: codec, opts: opts, logger: logger}
}

// ReadAccounts reads and parses the master accounts file up to the END_OF_FILE record.
func (r *FileRepository) ReadAccounts(ctx context.Context, path string) (*domain.AccountSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts file %s: %w", path, err)
	}
	defer file.Close()

	snapshot := &domain.AccountSnapshot{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		account, err := r.codec.DecodeAccountLine(line)
		if errors.Is(err, errEndOfSnapshot) {
			break
		}
		if err != nil {
			recErr := &domain.RecordError{Line: lineNo, Raw: line, Err: err}
			r.logger.Warn("skipping account record", zap.String("file", filepath.Base(path)), zap.Int("line", lineNo), zap.Error(err))
			snapshot.Rejected = append(snapshot.Rejected, recErr)
			continue
		}
		snapshot.Accounts = append(snapshot.Accounts, account)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading accounts from %s: %w", path, err)
	}

	r.logger.Debug("accounts file read", zap.String("file", path), zap.Int("accounts", len(snapshot.Accounts)))
	return snapshot, nil
}

// ReadTransactions reads the merged transaction file. Malformed lines are
// collected and skipped; an unrecognized transaction code is returned as an error.
func (r *FileRepository) ReadTransactions(ctx context.Context, path string) (*domain.TransactionStream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	stream := &domain.TransactionStream{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	session := 1
	pending := false // records seen since the last end-of-session line

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		tx, err := r.codec.DecodeTransactionLine(line)
		if err != nil {
			recErr := &domain.RecordError{Line: lineNo, Raw: line, Err: err}
			if domain.IsFatal(err) {
				return nil, fmt.Errorf("transaction file %s: %w", path, recErr)
			}
			r.logger.Warn("skipping transaction record", zap.String("file", filepath.Base(path)), zap.Int("line", lineNo), zap.Error(err))
			stream.Rejected = append(stream.Rejected, recErr)
			pending = true
			continue
		}

		if tx.Code == domain.CodeEndOfSession {
			stream.Sessions++
			pending = false
			if r.opts.SessionPolicy == SessionStop {
				break
			}
			session++
			continue
		}

		tx.Line = lineNo
		tx.Session = session
		stream.Transactions = append(stream.Transactions, tx)
		pending = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading transactions from %s: %w", path, err)
	}

	if pending {
		r.logger.Warn("transaction file ends without an end-of-session record", zap.String("file", path), zap.Int("session", session))
		stream.Sessions++
	}

	return stream, nil
}

// WriteSnapshots writes the master and current accounts files. Both files are
// fully encoded before anything touches the disk and are renamed into place
// only after both temporary files were written.
func (r *FileRepository) WriteSnapshots(ctx context.Context, masterPath, currentPath string, snapshot domain.Snapshot) error {
	master, err := r.encodeMaster(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode master snapshot: %w", err)
	}
	current, err := r.encodeCurrent(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode current snapshot: %w", err)
	}

	masterTmp, err := writeTemp(masterPath, master)
	if err != nil {
		return err
	}
	currentTmp, err := writeTemp(currentPath, current)
	if err != nil {
		os.Remove(masterTmp)
		return err
	}

	if err := os.Rename(masterTmp, masterPath); err != nil {
		os.Remove(masterTmp)
		os.Remove(currentTmp)
		return fmt.Errorf("failed to move master snapshot into place: %w", err)
	}
	if err := os.Rename(currentTmp, currentPath); err != nil {
		os.Remove(currentTmp)
		return fmt.Errorf("failed to move current snapshot into place: %w", err)
	}

	r.logger.Info("snapshots written",
		zap.String("master", masterPath),
		zap.String("current", currentPath),
		zap.Int("accounts", len(snapshot.Accounts)),
		zap.String("sentinel", snapshot.SentinelNumber),
	)
	return nil
}

func (r *FileRepository) encodeMaster(snapshot domain.Snapshot) ([]byte, error) {
	var b strings.Builder
	for _, account := range snapshot.Accounts {
		line, err := r.codec.EncodeAccountLine(account)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.Number, err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	sentinel, err := r.codec.EncodeSentinelLine(snapshot.SentinelNumber)
	if err != nil {
		return nil, fmt.Errorf("sentinel: %w", err)
	}
	b.WriteString(sentinel)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (r *FileRepository) encodeCurrent(snapshot domain.Snapshot) ([]byte, error) {
	var b strings.Builder
	for _, account := range snapshot.Accounts {
		if r.opts.CurrentActiveOnly && !account.IsActive() {
			continue
		}
		line, err := r.codec.EncodeCurrentAccountLine(account)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.Number, err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	sentinel, err := r.codec.EncodeCurrentSentinelLine(snapshot.SentinelNumber)
	if err != nil {
		return nil, fmt.Errorf("sentinel: %w", err)
	}
	b.WriteString(sentinel)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func writeTemp(target string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", target, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
