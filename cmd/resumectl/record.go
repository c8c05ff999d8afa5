package main

import (
	"fmt"
	"io"
	"os"

	"resume-builder/resume/model"
	"resume-builder/resume/schema"
)

// readRecord loads a record document from path, or stdin when path is "-".
// The document is shape-checked before decoding.
func readRecord(path string, stdin io.Reader) (model.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("read %s: %w", path, err)
	}
	return schema.Decode(data)
}
