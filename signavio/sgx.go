package signavio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	json "github.com/json-iterator/go"
)

// ArchiveModel is one model document found inside an .sgx export
// archive.
type ArchiveModel struct {
	Name string
	Path string
	Data []byte
}

// ReadArchive enumerates the model_*.json entries of an .sgx archive
// (a plain zip). Display names come from the matching model_*_meta.json
// entry when one exists, else from the entry stem. Entry order is
// preserved.
func ReadArchive(archivePath string) ([]ArchiveModel, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	metas := map[string]string{}
	for _, f := range zr.File {
		base := path.Base(f.Name)
		if !strings.HasPrefix(base, "model_") || !strings.HasSuffix(base, "_meta.json") {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			continue
		}
		var meta struct {
			Name string `json:"name"`
		}
		if err = json.Unmarshal(data, &meta); err != nil || meta.Name == "" {
			continue
		}
		metas[strings.TrimSuffix(base, "_meta.json")] = meta.Name
	}

	var models []ArchiveModel
	for _, f := range zr.File {
		base := path.Base(f.Name)
		if !strings.HasPrefix(base, "model_") || !strings.HasSuffix(base, ".json") ||
			strings.HasSuffix(base, "_meta.json") {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		stem := strings.TrimSuffix(base, ".json")
		name := metas[stem]
		if name == "" {
			name = stem
		}
		models = append(models, ArchiveModel{Name: name, Path: f.Name, Data: data})
	}
	return models, nil
}

// ExtractArchive writes every model of an .sgx archive into dir and
// returns how many files were written.
func ExtractArchive(archivePath, dir string) (int, error) {
	models, err := ReadArchive(archivePath)
	if err != nil {
		return 0, err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	seen := map[string]int{}
	for _, m := range models {
		fname := uniqueName(seen, SanitizeName(m.Name)) + ".json"
		if err = os.WriteFile(filepath.Join(dir, fname), m.Data, 0o644); err != nil {
			return 0, fmt.Errorf("write %s: %w", fname, err)
		}
	}
	return len(models), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
