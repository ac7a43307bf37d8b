package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadRuns reads all runs from a JSONL file.
func ReadRuns(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No history yet
		}
		return nil, fmt.Errorf("opening runs file: %w", err)
	}
	defer f.Close()

	var runs []Run
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var run Run
		if err := json.Unmarshal(line, &run); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		runs = append(runs, run)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading runs file: %w", err)
	}

	return runs, nil
}

// AppendRun adds a run to the end of a JSONL file, creating the file and its
// directory if needed.
func AppendRun(path string, run Run) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening runs file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}

	return nil
}

// AppendRuns appends several runs in order.
func AppendRuns(path string, runs []Run) error {
	for _, r := range runs {
		if err := AppendRun(path, r); err != nil {
			return err
		}
	}
	return nil
}
