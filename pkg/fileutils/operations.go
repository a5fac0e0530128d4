package fileutils

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CopyBlockSize bounds the memory used while copying a book.
const CopyBlockSize = 1 << 20

// CopyInBlocks copies src to dst in CopyBlockSize chunks.
func CopyInBlocks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, CopyBlockSize)
	n, err := io.CopyBuffer(onlyWriter{dst}, src, buf)
	return n, errors.WithStack(err)
}

// onlyWriter hides ReadFrom so io.CopyBuffer sticks to the given buffer.
type onlyWriter struct {
	io.Writer
}

// WriteFile creates path and fills it from src.
func WriteFile(path string, src io.Reader) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WithStack(cerr)
		}
	}()

	_, err = CopyInBlocks(f, src)
	return err
}

// PackToZip replaces the file at path with path+".zip", an archive holding
// the file as its only entry. It returns the path of the archive.
func PackToZip(path string) (string, error) {
	zipPath := path + ".zip"

	src, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", errors.WithStack(err)
	}

	if err := writeSingleEntryZip(zipPath, info, src); err != nil {
		os.Remove(zipPath)
		return "", err
	}

	src.Close()
	if err := os.Remove(path); err != nil {
		return "", errors.WithStack(err)
	}
	return zipPath, nil
}

func writeSingleEntryZip(zipPath string, info os.FileInfo, src io.Reader) error {
	dst, err := os.Create(zipPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer dst.Close()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.WithStack(err)
	}
	header.Name = filepath.Base(info.Name())
	header.Method = zip.Deflate

	zw := zip.NewWriter(dst)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := CopyInBlocks(w, src); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(dst.Close())
}
