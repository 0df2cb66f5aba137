package compress

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"

	"github.com/athena-regress/athcheck/lib/eq"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		name string
		codec Codec
		trimmed string
	} {
		{"a.vtk", None, "a.vtk"},
		{"a.vtk.zst", ZStd, "a.vtk"},
		{"a.vtk.ZSTD", ZStd, "a.vtk"},
		{"dir.gz/a.tab.gz", GZip, "dir.gz/a.tab"},
		{"a.tab", None, "a.tab"},
		{"zst", None, "zst"},
	}

	for i := range tests {
		if codec := CodecFor(tests[i].name); codec != tests[i].codec {
			t.Errorf("%d) Expected '%s' to have codec %s, got %s.",
				i, tests[i].name, tests[i].codec, codec)
		}
		if trimmed := Trim(tests[i].name); trimmed != tests[i].trimmed {
			t.Errorf("%d) Expected '%s' to trim to '%s', got '%s'.",
				i, tests[i].name, tests[i].trimmed, trimmed)
		}
	}
}

func writeTestFiles(t *testing.T, data []byte) []string {
	dir := t.TempDir()

	raw := filepath.Join(dir, "data.vtk")
	if err := os.WriteFile(raw, data, 0644); err != nil { t.Fatal(err) }

	zb, err := zstd.Compress(nil, data)
	if err != nil { t.Fatal(err) }
	zName := filepath.Join(dir, "data.vtk.zst")
	if err := os.WriteFile(zName, zb, 0644); err != nil { t.Fatal(err) }

	gb := &bytes.Buffer{ }
	wr := gzip.NewWriter(gb)
	if _, err := wr.Write(data); err != nil { t.Fatal(err) }
	if err := wr.Close(); err != nil { t.Fatal(err) }
	gName := filepath.Join(dir, "data.vtk.gz")
	if err := os.WriteFile(gName, gb.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	return []string{ raw, zName, gName }
}

func testData() []byte {
	data := []byte("# vtk DataFile Version 2.0\nBINARY\n")
	for i := 0; i < 1000; i++ { data = append(data, byte(i % 251)) }
	return data
}

func TestReadFile(t *testing.T) {
	data := testData()
	for i, name := range writeTestFiles(t, data) {
		out, err := ReadFile(name)
		if err != nil {
			t.Errorf("%d) Reading %s gave error '%s'.", i, name, err.Error())
		} else if !bytes.Equal(out, data) {
			t.Errorf("%d) Reading %s gave %d bytes that don't match the " +
				"%d written bytes.", i, name, len(out), len(data))
		}
	}
}

func TestNewReader(t *testing.T) {
	data := testData()
	for i, name := range writeTestFiles(t, data) {
		rd, err := NewReader(name)
		if err != nil {
			t.Errorf("%d) Opening %s gave error '%s'.", i, name, err.Error())
			continue
		}
		out, err := io.ReadAll(rd)
		if err != nil {
			t.Errorf("%d) Reading %s gave error '%s'.", i, name, err.Error())
		} else if !bytes.Equal(out, data) {
			t.Errorf("%d) Streaming %s gave bytes that don't match.", i, name)
		}
		if err := rd.Close(); err != nil {
			t.Errorf("%d) Closing %s gave error '%s'.", i, name, err.Error())
		}
	}
}

func TestReadFileFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.vtk.zst")
	if err := os.WriteFile(bad, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}

	names := []string{ filepath.Join(dir, "missing.vtk"), bad }
	for i := range names {
		if _, err := ReadFile(names[i]); err == nil {
			t.Errorf("%d) Expected reading %s to fail.", i, names[i])
		}
	}

	if !eq.Strings([]string{Trim(bad)}, []string{filepath.Join(dir, "bad.vtk")}) {
		t.Errorf("Trim(%s) = %s", bad, Trim(bad))
	}
}
