package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

// DiscoveryError reports a collection root that cannot be enumerated
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to discover documents under [%s]: %s", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Listing is the result of one walk over a collection root. Count and Files
// come from the same walk, so every file is handed to the parser exactly once.
type Listing struct {
	Root    string
	files   []string
	skipped []string
}

func (l *Listing) Count() int {
	return len(l.files)
}

// Files returns document paths in lexical order
func (l *Listing) Files() []string {
	files := make([]string, len(l.files))
	copy(files, l.files)
	return files
}

// Skipped lists directories below the root that could not be read
func (l *Listing) Skipped() []string {
	return l.skipped
}

// Discover walks root and collects every regular file matching one of extensions
// (case insensitive suffix match). The root itself must be a readable directory.
func Discover(root string, extensions []string) (*Listing, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Root: root, Err: errors.New("not a directory")}
	}

	listing := &Listing{Root: root}
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warnf("skipping unreadable path[%s]: %s", path, walkErr)
			listing.skipped = append(listing.skipped, path)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		if hasExtension(entry.Name(), extensions) {
			listing.files = append(listing.files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}

	sort.Strings(listing.files)
	logger.Debugf("discovered %d documents under %s", len(listing.files), root)
	return listing, nil
}

func hasExtension(name string, extensions []string) bool {
	name = strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ListCollections returns the names of the immediate sub-directories of a dump root
func ListCollections(inputRoot string) ([]string, error) {
	entries, err := os.ReadDir(inputRoot)
	if err != nil {
		return nil, &DiscoveryError{Root: inputRoot, Err: err}
	}

	collections := []string{}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			collections = append(collections, entry.Name())
		}
	}
	sort.Strings(collections)
	return collections, nil
}
