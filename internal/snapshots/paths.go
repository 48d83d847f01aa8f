package snapshots

import (
	"fmt"
	"path/filepath"
)

// DocumentPath builds the path to the tournament document for key.
func DocumentPath(basePath, key string) string {
	if key == "" {
		key = DefaultKey
	}
	return filepath.Join(basePath, fmt.Sprintf("%s.json", key))
}
