package export

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-hclog"
)

// Sink receives exported files by name
type Sink interface {
	Add(name string, data []byte) error
	Close() error
}

// ArchiveKind selects the archive container and compression
type ArchiveKind uint8

const (
	ArchiveNone ArchiveKind = iota // plain directory
	ArchiveTar
	ArchiveTarGzip
	ArchiveTarBzip2
)

func (k ArchiveKind) String() string {
	switch k {
	case ArchiveNone:
		return "directory"
	case ArchiveTar:
		return "tar"
	case ArchiveTarGzip:
		return "tar.gz"
	case ArchiveTarBzip2:
		return "tar.bz2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// KindFromPath infers the archive kind from an output path's suffix
func KindFromPath(path string) ArchiveKind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return ArchiveTarGzip
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return ArchiveTarBzip2
	case strings.HasSuffix(lower, ".tar"):
		return ArchiveTar
	default:
		return ArchiveNone
	}
}

// Archive writes entries to a tar stream, optionally compressed
type Archive struct {
	tw      *tar.Writer
	wrapper io.WriteCloser // compression layer, nil for plain tar
	file    *os.File       // set when the archive owns its output file
	modTime time.Time
	logger  hclog.Logger
}

// NewArchive starts an archive of kind on w
func NewArchive(w io.Writer, kind ArchiveKind, logger hclog.Logger) (*Archive, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	a := &Archive{modTime: time.Now(), logger: logger}

	switch kind {
	case ArchiveTar:
	case ArchiveTarGzip:
		a.wrapper = gzip.NewWriter(w)
	case ArchiveTarBzip2:
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
		if err != nil {
			return nil, fmt.Errorf("creating bzip2 writer: %w", err)
		}
		a.wrapper = bw
	default:
		return nil, fmt.Errorf("archive kind %s cannot be streamed", kind)
	}

	if a.wrapper != nil {
		a.tw = tar.NewWriter(a.wrapper)
	} else {
		a.tw = tar.NewWriter(w)
	}
	logger.Debug("📦 Archive started", "kind", kind)
	return a, nil
}

// Add writes one regular file entry
func (a *Archive) Add(name string, data []byte) error {
	header := &tar.Header{
		Name:    filepath.ToSlash(name),
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: a.modTime,
	}
	if err := a.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header: %w", err)
	}
	if _, err := a.tw.Write(data); err != nil {
		return fmt.Errorf("writing tar data: %w", err)
	}
	a.logger.Trace("📄 Archived", "name", name, "size", len(data))
	return nil
}

// Close flushes the tar stream, the compression layer and any owned file
func (a *Archive) Close() error {
	var errs []error
	if err := a.tw.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing tar writer: %w", err))
	}
	if a.wrapper != nil {
		if err := a.wrapper.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing compression: %w", err))
		}
	}
	if a.file != nil {
		if err := a.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DirSink writes entries as files under a directory
type DirSink struct {
	root   string
	logger hclog.Logger
}

// NewDirSink creates root if needed
func NewDirSink(root string, logger hclog.Logger) (*DirSink, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &DirSink{root: root, logger: logger}, nil
}

func (d *DirSink) Add(name string, data []byte) error {
	path := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	d.logger.Trace("📄 Wrote", "path", path, "size", len(data))
	return nil
}

func (d *DirSink) Close() error { return nil }

// OpenSink picks a directory or archive sink from the output path
func OpenSink(path string, logger hclog.Logger) (Sink, error) {
	kind := KindFromPath(path)
	if kind == ArchiveNone {
		return NewDirSink(path, logger)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	a, err := NewArchive(f, kind, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}
