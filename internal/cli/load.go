package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/marksweep/marksweep/internal/config"
	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/importer"
)

// loadDocument parses a bookmark export into a fresh document, filling the
// import metadata from the file.
func loadDocument(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	root, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return document.New(root, document.ImportMeta{
		FileName:     info.Name(),
		ByteSize:     info.Size(),
		FileModified: info.ModTime(),
		ImportedAt:   time.Now(),
	}), nil
}

// loadConfig reads the user config, falling back to defaults when the
// config path cannot be resolved.
func loadConfig() *config.Config {
	path, err := config.DefaultPath()
	if err != nil {
		cfg := config.Default()
		return &cfg
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unreadable config %s: %v\n", path, err)
		def := config.Default()
		return &def
	}
	return cfg
}
