package store

import (
	"bufio"
	"fmt"

	"github.com/spf13/afero"

	"github.com/visionhost/predict/errors"
)

// LabelFile maps class indices to lines of a text file, one label per
// line, 1-indexed. An index with no corresponding line is a reported
// error, never a silent default.
type LabelFile struct {
	fs   afero.Fs
	path string
}

func NewLabelFile(fs afero.Fs, path string) *LabelFile {
	return &LabelFile{fs: fs, path: path}
}

// Label returns line number index of the label file.
func (l *LabelFile) Label(index int) (string, error) {
	if index < 1 {
		return "", &errors.Error{
			Phase:  errors.PhaseStore,
			Kind:   errors.KindOutOfRange,
			Detail: fmt.Sprintf("class index %d is not positive", index),
		}
	}

	f, err := l.fs.Open(l.path)
	if err != nil {
		return "", errors.IO(fmt.Sprintf("open labels %s", l.path), err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		if lines == index {
			return scanner.Text(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.IO(fmt.Sprintf("read labels %s", l.path), err)
	}

	return "", errors.OutOfRange(index, lines)
}
