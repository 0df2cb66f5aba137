package regress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/athena-regress/athcheck/lib/compress"
)

// SavedFiles holds copies of files which a test run may overwrite, so they
// can be put back afterwards.
type SavedFiles struct {
	files []savedFile
}

type savedFile struct {
	name string
	existed bool
	data []byte
	mode fs.FileMode
}

// SaveFiles copies the contents of each named file. Files which don't exist
// yet are recorded so Restore can remove them.
func SaveFiles(names ...string) (*SavedFiles, error) {
	s := &SavedFiles{ }
	for _, name := range names {
		info, err := os.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			s.files = append(s.files, savedFile{ name: name })
			continue
		} else if err != nil {
			return nil, err
		} else if info.IsDir() {
			return nil, fmt.Errorf("'%s' is a directory, not a file.", name)
		}

		data, err := os.ReadFile(name)
		if err != nil { return nil, err }
		s.files = append(s.files, savedFile{
			name: name, existed: true, data: data, mode: info.Mode().Perm(),
		})
	}
	return s, nil
}

// Names returns the names of the saved files.
func (s *SavedFiles) Names() []string {
	out := make([]string, len(s.files))
	for i := range s.files { out[i] = s.files[i].name }
	return out
}

// Restore writes every saved file back and removes files that didn't exist
// when they were saved. It attempts every file before returning the errors
// it encountered.
func (s *SavedFiles) Restore() error {
	var errs []error
	for _, f := range s.files {
		var err error
		if f.existed {
			err = os.WriteFile(f.name, f.data, f.mode)
		} else {
			err = os.Remove(f.name)
			if errors.Is(err, fs.ErrNotExist) { err = nil }
		}
		if err != nil { errs = append(errs, err) }
	}
	return errors.Join(errs...)
}

// vtkMagic starts the first line of every legacy VTK file.
var vtkMagic = []byte("# vtk DataFile")

// Sniff reads the first line of a file and returns the format it appears to
// be in. Compressed files are streamed, so only the start of the file is
// decompressed.
func Sniff(fileName string) (Format, error) {
	rd, err := compress.NewReader(fileName)
	if err != nil { return VTK, err }
	defer rd.Close()

	line, err := bufio.NewReader(rd).ReadSlice('\n')
	if len(line) == 0 && err != nil {
		return VTK, fmt.Errorf("Could not read the first line of '%s': %s",
			fileName, err.Error())
	}

	if bytes.HasPrefix(line, vtkMagic) || bytes.HasPrefix(line, []byte("BINARY")) {
		return VTK, nil
	}
	return Tab, nil
}
