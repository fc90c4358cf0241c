package convert

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"e2n/archive"
	"e2n/state"
)

// process determines the input type (directory, archive, or single export
// file) and processes accordingly. Archives may be addressed with a path
// inside: "backup.zip/exports" walks .enex entries under "exports" only.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArc {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, tail, "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isExportFile(head) && len(tail) == 0 {
			// we have export file, it cannot have tail
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to open export file: %w", err)
			}
			defer file.Close()
			if err := processExport(ctx, file, filepath.Base(head), dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as Evernote export (%s)", head)

	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding export files and archives and
// processes them. Entries on every level are visited in natural order, so
// "note2.enex" comes before "note10.enex".
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	count := 0
	if err := walkDir(ctx, dir, dir, dst, &count, log); err != nil {
		return err
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

func walkDir(ctx context.Context, root, dir, dst string, count *int, log *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("Skipping directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	sort.Sort(naturalDirOrder(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := walkDir(ctx, root, path, dst, count, log); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		isArc, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArc {
			*count++
			if err := processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, root)), dst, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		if !isExportFile(path) {
			log.Debug("Skipping file, not recognized as export or archive", zap.String("file", path))
			continue
		}

		*count++

		file, err := os.Open(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			continue
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, root), string(filepath.Separator))
		if err := processExport(ctx, file, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		file.Close()
	}
	return nil
}

type naturalDirOrder []os.DirEntry

func (s naturalDirOrder) Len() int           { return len(s) }
func (s naturalDirOrder) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s naturalDirOrder) Less(i, j int) bool { return natural.Less(s[i].Name(), s[j].Name()) }

// processArchive walks all .enex entries inside archive under "pathIn" and
// processes them.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	err = archive.Walk(path, pathIn, ".enex", func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		cp := state.EnvFromContext(ctx).CodePage

		pathInArchive := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		if err := processExport(ctx, r, filepath.Join(pathOut, pathInArchive), dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// isArchiveFile sniffs the zip magic.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var magic [4]byte
	if _, err := f.Read(magic[:]); err != nil {
		// too short to be anything we process
		return false, nil
	}
	return magic == [4]byte{'P', 'K', 0x03, 0x04}, nil
}

func isExportFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".enex")
}
