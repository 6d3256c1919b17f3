package pipeline

import (
	"fmt"
	"os"

	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/frame"
)

// Load reads frames from JSON and CSV files, in argument order.
func Load(paths ...string) ([]*frame.Frame, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input files")
	}
	for _, p := range paths {
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input file %s not found", p)
		}
	}
	frames, err := frame.ImportFiles(paths...)
	if err != nil {
		return nil, fmt.Errorf("load frames: %w", err)
	}
	return frames, nil
}
