package prune

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	"github.com/reugn/go-rotation/rotation"
)

// Snapshot is a single backup identified by the date it was taken.
type Snapshot struct {
	Name string
	Date civil.Date
	Size int64
}

func (s Snapshot) String() string {
	return s.Name
}

// Store provides access to the snapshots subject to rotation.
type Store interface {
	// List returns all dated snapshots of the store.
	List(ctx context.Context) ([]Snapshot, error)

	// Delete removes the given snapshot.
	Delete(ctx context.Context, snapshot Snapshot) error
}

// DirStore is a [Store] backed by the entries of a local directory.
// Entries whose names begin with a date, such as "2012-02-29",
// "2012-02-29_db.tar.gz" or "2012.02.29", are snapshots; everything
// else is ignored.
type DirStore struct {
	dir string
}

var _ Store = (*DirStore)(nil)

// NewDirStore returns a new DirStore for the given directory.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the directory of the store.
func (s *DirStore) Dir() string {
	return s.dir
}

// List returns the dated entries of the directory.
func (s *DirStore) List(ctx context.Context) ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	snapshots := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date, ok := ParseSnapshotDate(entry.Name())
		if !ok {
			continue
		}
		size, err := entrySize(filepath.Join(s.dir, entry.Name()), entry)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, Snapshot{
			Name: entry.Name(),
			Date: date,
			Size: size,
		})
	}
	return snapshots, nil
}

// Delete removes the snapshot entry, recursively for directories.
func (s *DirStore) Delete(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := snapshot.Name
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// ParseSnapshotDate extracts the leading date of a snapshot name. The date
// has the form YYYY?MM?DD where ? is any non-digit separator.
func ParseSnapshotDate(name string) (civil.Date, bool) {
	if len(name) < 10 {
		return civil.Date{}, false
	}
	for i := 0; i < 10; i++ {
		separator := i == 4 || i == 7
		if isDigit(name[i]) == separator {
			return civil.Date{}, false
		}
	}
	// a longer run of digits is not a date prefix
	if len(name) > 10 && isDigit(name[10]) {
		return civil.Date{}, false
	}
	date, err := rotation.ParseDate(name)
	if err != nil {
		return civil.Date{}, false
	}
	return date, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func entrySize(path string, entry fs.DirEntry) (int64, error) {
	if !entry.IsDir() {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}

	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}
