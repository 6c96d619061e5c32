package fileops

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/common"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/options"
)

// ArchiveFormat identifies how an archive is unpacked
type ArchiveFormat string

const (
	FormatZip     ArchiveFormat = "zip"
	FormatTar     ArchiveFormat = "tar"
	FormatTarGz   ArchiveFormat = "tar.gz"
	FormatGzip    ArchiveFormat = "gz"
	FormatUnknown ArchiveFormat = ""
)

// tar "ustar" magic sits at offset 257 of the first 512 byte header block
const (
	tarMagicOffset = 257
	tarBlockSize   = 512
)

// DetectFormat picks the unpack format from the archive file name
func DetectFormat(name string) ArchiveFormat {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar
	case strings.HasSuffix(lower, ".gz"):
		return FormatGzip
	default:
		return FormatUnknown
	}
}

// Extract unpacks the full contents of archivePath into destDir and returns
// the number of bytes written. A ".gz" file holding a tar stream is unpacked
// as a tarball, otherwise as a single compressed file.
func (fo *FileOps) Extract(ctx context.Context, archivePath, destDir string, opts options.ExtractOptions) (int64, error) {
	if opts.DirPerm == 0 {
		opts.DirPerm = 0o755
	}
	if err := fo.fs.MkdirAll(destDir, opts.DirPerm); err != nil {
		return 0, common.IOError("create directory", destDir, err)
	}

	var (
		n   int64
		err error
	)
	switch DetectFormat(archivePath) {
	case FormatZip:
		n, err = fo.extractZip(ctx, archivePath, destDir, opts)
	case FormatTar:
		n, err = fo.extractTarFile(ctx, archivePath, destDir, opts, false)
	case FormatTarGz, FormatGzip:
		n, err = fo.extractTarFile(ctx, archivePath, destDir, opts, true)
	default:
		err = common.ErrUnsupportedFormat
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return n, err
		}
		return n, common.NewOpError(common.ErrExtractionFailure, "extract", archivePath, err)
	}

	zerolog.Ctx(ctx).Debug().Str("archive", archivePath).Str("dest", destDir).Int64("bytes", n).Msg("Extracted archive")
	return n, nil
}

func (fo *FileOps) extractZip(ctx context.Context, archivePath, destDir string, opts options.ExtractOptions) (int64, error) {
	f, err := fo.fs.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	reader, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("open zip: %w", err)
	}

	var total int64
	for _, member := range reader.File {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		target, err := fo.memberPath(destDir, member.Name)
		if err != nil {
			return total, err
		}

		if member.FileInfo().IsDir() {
			if err := fo.fs.MkdirAll(target, opts.DirPerm); err != nil {
				return total, err
			}
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return total, fmt.Errorf("open %s: %w", member.Name, err)
		}
		n, err := fo.writeMember(ctx, target, rc, member.Mode().Perm(), opts.DirPerm)
		rc.Close()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (fo *FileOps) extractTarFile(ctx context.Context, archivePath, destDir string, opts options.ExtractOptions, gzipped bool) (int64, error) {
	f, err := fo.fs.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if !gzipped {
		return fo.extractTar(ctx, tar.NewReader(f), destDir, opts)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	buffered := bufio.NewReader(gz)
	if isTarStream(buffered) {
		return fo.extractTar(ctx, tar.NewReader(buffered), destDir, opts)
	}

	name := gz.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	}
	target, err := fo.memberPath(destDir, filepath.Base(name))
	if err != nil {
		return 0, err
	}
	return fo.writeMember(ctx, target, buffered, 0o644, opts.DirPerm)
}

func (fo *FileOps) extractTar(ctx context.Context, tr *tar.Reader, destDir string, opts options.ExtractOptions) (int64, error) {
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		header, err := tr.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("read tar: %w", err)
		}

		target, err := fo.memberPath(destDir, header.Name)
		if err != nil {
			return total, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := fo.fs.MkdirAll(target, opts.DirPerm); err != nil {
				return total, err
			}
		case tar.TypeReg:
			n, err := fo.writeMember(ctx, target, tr, os.FileMode(header.Mode).Perm(), opts.DirPerm)
			total += n
			if err != nil {
				return total, err
			}
		default:
			zerolog.Ctx(ctx).Debug().Str("member", header.Name).Msg("Skipping non-regular tar member")
		}
	}
}

func (fo *FileOps) writeMember(ctx context.Context, target string, r io.Reader, mode, dirPerm os.FileMode) (int64, error) {
	if err := fo.fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return 0, err
	}
	if mode == 0 {
		mode = 0o644
	}

	out, err := fo.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	n, copyErr := copyWithContext(ctx, out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return n, copyErr
	}
	return n, closeErr
}

// memberPath maps an archive member name into destDir, rejecting names that
// would land outside of it.
func (fo *FileOps) memberPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !fo.pathUtils.IsWithin(destDir, target) {
		return "", fmt.Errorf("%w: %s", common.ErrUnsafeArchivePath, name)
	}
	return target, nil
}

func isTarStream(r *bufio.Reader) bool {
	block, err := r.Peek(tarBlockSize)
	if err != nil {
		return false
	}
	if bytes.Equal(block[tarMagicOffset:tarMagicOffset+5], []byte("ustar")) {
		return true
	}
	// pre-POSIX headers carry no magic, only a valid checksum
	_, err = tar.NewReader(bytes.NewReader(block)).Next()
	return err == nil
}
