package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teamplan/alloc/internal/domain/model"
)

// FileSource loads the roster from a YAML file on every call. Pair it with
// the Directory cache so the file is only re-read when the TTL lapses.
func FileSource(path string) Source {
	return SourceFunc(func(_ context.Context) (model.Org, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return model.Org{}, fmt.Errorf("read roster file: %w", err)
		}
		var org model.Org
		if err := yaml.Unmarshal(raw, &org); err != nil {
			return model.Org{}, fmt.Errorf("parse roster file %s: %w", path, err)
		}
		return org, nil
	})
}
