package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const (
	separatorWidth = 80
	encodingError  = "Error: Unable to read file with supported encodings"
)

var separator = strings.Repeat("=", separatorWidth)

// recordWriter appends records to the aggregate output. The first write error sticks:
// every later write is a no-op and err() reports it.
type recordWriter struct {
	w       io.Writer
	failure error
}

func (rw *recordWriter) writeString(s string) {
	if rw.failure != nil {
		return
	}
	if _, err := io.WriteString(rw.w, s); err != nil {
		rw.failure = err
	}
}

func (rw *recordWriter) err() error {
	return rw.failure
}

// writeHeader writes the fixed block that opens every record.
func (rw *recordWriter) writeHeader(filePath, dir string) {
	rw.writeString(separator + "\n")
	rw.writeString("Path: " + filePath + "\n")
	rw.writeString("Directory: " + dir + "\n")
	rw.writeString(separator + "\n")
	rw.writeString("Contents:\n")
}

// writeBody writes the decoded text (or an error line) followed by the record's blank line.
func (rw *recordWriter) writeBody(body string) {
	rw.writeString(body)
	rw.writeString("\n\n")
}

// emit writes one record for fileRoot/fileName. Per-file problems end up inside the record;
// only a failing output stream is returned.
func (r *scan) emit(rw *recordWriter, fileRoot, fileName string) error {
	filePath := filepath.Join(fileRoot, fileName)

	if r.filter.ShouldSkipFile(fileName) || r.isSelf(filePath) {
		r.logger.Debug("Skipping file", zap.String("path", filePath))
		r.summary.Skipped++
		return nil
	}

	r.logger.Debug("Processing file", zap.String("path", filePath))
	rw.writeHeader(filePath, fileRoot)

	data, err := os.ReadFile(filePath)
	if err != nil {
		r.logger.Error("Error processing file", zap.String("path", filePath), zap.Error(err))
		rw.writeBody(fmt.Sprintf("Error reading file: %v", err))
		r.summary.Errors++
	} else if text, encName, decodeErr := decodeText(data); decodeErr != nil {
		r.logger.Error("Unable to decode file", zap.String("path", filePath), zap.Error(decodeErr))
		rw.writeBody(encodingError)
		r.summary.Errors++
		r.summary.Bytes += int64(len(data))
	} else {
		r.logger.Debug("Decoded file", zap.String("path", filePath), zap.String("encoding", encName))
		rw.writeBody(text)
		r.summary.Bytes += int64(len(data))
	}
	r.summary.Records++

	if err := rw.err(); err != nil {
		return fmt.Errorf("error writing to %s: %w", r.outputFile, err)
	}
	return nil
}

// copyOutputToClipboard puts the finished artifact on the system clipboard.
func copyOutputToClipboard(outputFile string) error {
	data, err := os.ReadFile(outputFile)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", outputFile, err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("error writing to clipboard: %w", err)
	}
	return nil
}
