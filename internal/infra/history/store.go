// Package history records task file snapshots as commits in a bare Git repository.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/runoshun/della/internal/domain"
)

// Ensure Store implements domain.History.
var _ domain.History = (*Store)(nil)

// SnapshotsRef is the branch holding the snapshot chain.
const SnapshotsRef = plumbing.ReferenceName("refs/heads/snapshots")

// Store implements domain.History using Git plumbing.
//
// Data structure:
//
//	HEAD -> refs/heads/snapshots
//	refs/heads/snapshots -> commit
//	  tree
//	    tasks.<ext> -> blob (task file bytes)
type Store struct {
	repo     *git.Repository
	now      func() time.Time
	fileName string
	mu       sync.Mutex
}

// Open opens the repository at dir, initializing a bare one if needed.
// tasksPath selects the snapshot file name.
func Open(dir, tasksPath string) (*Store, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, true)
		if err != nil {
			return nil, fmt.Errorf("init history repository: %w", err)
		}
		head := plumbing.NewSymbolicReference(plumbing.HEAD, SnapshotsRef)
		if err := repo.Storer.SetReference(head); err != nil {
			return nil, fmt.Errorf("set HEAD: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open history repository: %w", err)
	}
	return NewWithRepo(repo, tasksPath), nil
}

// NewWithRepo creates a Store on an existing repository instance.
func NewWithRepo(repo *git.Repository, tasksPath string) *Store {
	return &Store{
		repo:     repo,
		now:      time.Now,
		fileName: domain.SnapshotFileName(tasksPath),
	}
}

// Record commits data as a new snapshot. Unchanged data records nothing.
func (s *Store) Record(_ context.Context, data []byte, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobHash, err := s.writeBlob(data)
	if err != nil {
		return "", err
	}
	treeHash, err := s.writeTree(blobHash)
	if err != nil {
		return "", err
	}

	var parents []plumbing.Hash
	ref, err := s.repo.Reference(SnapshotsRef, true)
	switch {
	case err == nil:
		parent, err := s.repo.CommitObject(ref.Hash())
		if err != nil {
			return "", fmt.Errorf("get parent commit: %w", err)
		}
		if parent.TreeHash == treeHash {
			return "", nil
		}
		parents = []plumbing.Hash{ref.Hash()}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
	default:
		return "", fmt.Errorf("get snapshots ref: %w", err)
	}

	sig := object.Signature{Name: "della", Email: "della@localhost", When: s.now()}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}
	obj := s.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return "", fmt.Errorf("encode commit: %w", err)
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", fmt.Errorf("store commit: %w", err)
	}

	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(SnapshotsRef, hash)); err != nil {
		return "", fmt.Errorf("set snapshots ref: %w", err)
	}
	return hash.String(), nil
}

// List returns snapshots newest first. limit <= 0 returns all.
func (s *Store) List(_ context.Context, limit int) ([]domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.repo.Reference(SnapshotsRef, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshots ref: %w", err)
	}

	iter, err := s.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var snapshots []domain.Snapshot
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(snapshots) >= limit {
			return storer.ErrStop
		}
		snapshots = append(snapshots, domain.Snapshot{
			Hash:    c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			Time:    c.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk log: %w", err)
	}
	return snapshots, nil
}

// Get returns the task file recorded at rev.
// rev is a revision such as HEAD~2 or a (possibly abbreviated) commit hash.
func (s *Store) Get(_ context.Context, rev string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.resolve(rev)
	if err != nil {
		return nil, err
	}
	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	file, err := commit.File(s.fileName)
	if err != nil {
		return nil, fmt.Errorf("get %s at %s: %w", s.fileName, rev, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// resolve maps rev to a commit hash, falling back to a hash prefix scan.
func (s *Store) resolve(rev string) (plumbing.Hash, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		rev = "HEAD"
	}
	if h, err := s.repo.ResolveRevision(plumbing.Revision(rev)); err == nil {
		return *h, nil
	}

	ref, err := s.repo.Reference(SnapshotsRef, true)
	if err != nil {
		return plumbing.ZeroHash, &domain.NotFoundError{Address: rev}
	}
	iter, err := s.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var found plumbing.Hash
	err = iter.ForEach(func(c *object.Commit) error {
		if strings.HasPrefix(c.Hash.String(), strings.ToLower(rev)) {
			found = c.Hash
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("walk log: %w", err)
	}
	if found.IsZero() {
		return plumbing.ZeroHash, &domain.NotFoundError{Address: rev}
	}
	return found, nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// writeTree stores a single-entry tree pointing at blob.
func (s *Store) writeTree(blob plumbing.Hash) (plumbing.Hash, error) {
	tree := &object.Tree{
		Entries: []object.TreeEntry{{
			Name: s.fileName,
			Mode: filemode.Regular,
			Hash: blob,
		}},
	}
	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store tree: %w", err)
	}
	return hash, nil
}
