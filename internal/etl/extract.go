package etl

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/pkg/logger"
)

const textExtension = ".txt"

// Extract walks root recursively and reads every *.txt file as UTF-8 text.
// Unreadable files and directories are logged and skipped. A missing root
// yields no documents and no error.
func Extract(root string, log logger.ILogger) ([]*entity.Document, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("ETL", "Source path does not exist", map[string]interface{}{"path": root})
			return nil, nil
		}
		return nil, err
	}

	var docs []*entity.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Error("ETL", "Failed to read "+path, map[string]interface{}{"error": walkErr.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != textExtension {
			return nil
		}

		doc, err := extractFile(path, d)
		if err != nil {
			log.Error("ETL", "Failed to extract "+path, map[string]interface{}{"error": err.Error()})
			return nil
		}

		docs = append(docs, doc)
		log.Debug("ETL", "Extracted "+d.Name(), nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("ETL", "Documents extracted", map[string]interface{}{"total": len(docs)})
	return docs, nil
}

var errNotUTF8 = errors.New("file is not valid UTF-8")

func extractFile(path string, d fs.DirEntry) (*entity.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, errNotUTF8
	}

	info, err := d.Info()
	if err != nil {
		return nil, err
	}

	return &entity.Document{
		Content: string(content),
		Metadata: map[string]interface{}{
			"filename":  d.Name(),
			"filepath":  path,
			"file_type": "txt",
			"size":      info.Size(),
		},
	}, nil
}
