/*package compress reads files which may have been archived with a
compression codec. Reference data for regression tests is often stored
compressed, and the codec is chosen from the file's extension:

   .zst, .zstd - Zstandard
   .gz         - gzip
   anything else is read as-is.
*/
package compress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"
	kzstd "github.com/klauspost/compress/zstd"
)

// Codec identifies the compression method used by a file.
type Codec int

const (
	None Codec = iota
	ZStd
	GZip
)

func (c Codec) String() string {
	switch c {
	case None: return "none"
	case ZStd: return "zstd"
	case GZip: return "gzip"
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// CodecFor returns the Codec associated with a file name's extension.
func CodecFor(fileName string) Codec {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".zst", ".zstd": return ZStd
	case ".gz": return GZip
	}
	return None
}

// Trim removes the compression extension from a file name, if it has one, so
// "a.vtk.zst" becomes "a.vtk".
func Trim(fileName string) string {
	if CodecFor(fileName) == None { return fileName }
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// ReadFile reads the entire contents of a file into memory, decompressing it
// if needed.
func ReadFile(fileName string) ([]byte, error) {
	b, err := os.ReadFile(fileName)
	if err != nil { return nil, err }

	out, err := Decompress(CodecFor(fileName), b)
	if err != nil {
		return nil, fmt.Errorf("The file %s could not be decompressed with " +
			"%s: %s", fileName, CodecFor(fileName), err.Error())
	}
	return out, nil
}

// Decompress decompresses b using the given codec.
func Decompress(codec Codec, b []byte) ([]byte, error) {
	switch codec {
	case None:
		return b, nil
	case ZStd:
		return zstd.Decompress(nil, b)
	case GZip:
		rd, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil { return nil, err }
		defer rd.Close()
		return io.ReadAll(rd)
	}
	return nil, fmt.Errorf("Unrecognized codec, %s.", codec)
}

// NewReader opens a file and returns a streaming reader over its
// decompressed contents. Closing the reader closes the file.
func NewReader(fileName string) (io.ReadCloser, error) {
	f, err := os.Open(fileName)
	if err != nil { return nil, err }

	switch CodecFor(fileName) {
	case ZStd:
		dec, err := kzstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{ dec.IOReadCloser(), f }, nil
	case GZip:
		rd, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{ rd, f }, nil
	}
	return f, nil
}

// readCloser closes both a decompressor and the file beneath it.
type readCloser struct {
	io.ReadCloser
	file *os.File
}

func (rc *readCloser) Close() error {
	err := rc.ReadCloser.Close()
	if ferr := rc.file.Close(); err == nil { err = ferr }
	return err
}
