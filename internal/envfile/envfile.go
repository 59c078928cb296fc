package envfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/nulzo/model-capability-api/pkg/api"
)

const (
	// DefaultPath is the env file the editor operates on.
	DefaultPath = ".env"

	// CustomModelsVar holds the custom model configuration blob.
	CustomModelsVar = "OPENAI_CUSTOM_MODELS"
)

// File is an editable view of one env file. Mutations stay in memory
// until Save writes them back.
type File struct {
	path string
	vars map[string]string
}

// Load reads the env file at path. A missing file is not an error; it
// yields an empty set and the first Save creates the file.
func Load(path string) (*File, error) {
	f := &File{path: path, vars: map[string]string{}}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return f, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	f.vars = vars
	return f, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Get(key string) string { return f.vars[key] }

func (f *File) Set(key, value string) { f.vars[key] = value }

func (f *File) Unset(key string) { delete(f.vars, key) }

// Keys returns the variable names in sorted order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.vars))
	for k := range f.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CustomModels decodes the custom-models blob. An unset variable yields
// an empty map; a set but unparseable one is an error, so the editor can
// refuse to clobber a blob it cannot read.
func (f *File) CustomModels() (map[string]api.CustomModelConfig, error) {
	raw := f.vars[CustomModelsVar]
	if raw == "" {
		return map[string]api.CustomModelConfig{}, nil
	}

	var models map[string]api.CustomModelConfig
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", CustomModelsVar, err)
	}
	return models, nil
}

// SetCustomModels encodes and stores the blob. An empty map removes the
// variable entirely.
func (f *File) SetCustomModels(models map[string]api.CustomModelConfig) error {
	if len(models) == 0 {
		delete(f.vars, CustomModelsVar)
		return nil
	}

	data, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", CustomModelsVar, err)
	}

	f.vars[CustomModelsVar] = string(data)
	return nil
}

// Save writes the file back. The previous content, if any, is copied to
// <path>.backup first so a bad edit stays recoverable.
func (f *File) Save() error {
	if _, err := os.Stat(f.path); err == nil {
		if err := copyFile(f.path, f.path+".backup"); err != nil {
			return fmt.Errorf("failed to back up %s: %w", f.path, err)
		}
	}

	return godotenv.Write(f.vars, f.path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
