package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to logPath (appending) and, when verbose
// is set, to stderr as well. With neither, log output is discarded so that
// stdout stays reserved for reports.
func Init(logPath string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if verbose {
		writers = append(writers, os.Stderr)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent writes a formatted line to the log.
func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogStep records one evaluation step as key=value pairs.
func LogStep(kind string, step, training, test int, scores map[string]float64) {
	log.Println(buildStepMessage(kind, step, training, test, scores))
}

// LogValue records a named value, JSON-encoding anything that is not a string.
func LogValue(name string, value any) {
	log.Printf("[%s] %s", strings.ToUpper(strings.TrimSpace(name)), encodePayload(value))
}

func buildStepMessage(kind string, step, training, test int, scores map[string]float64) string {
	kindValue := strings.TrimSpace(kind)
	if kindValue == "" {
		kindValue = "evaluate"
	}
	parts := []string{fmt.Sprintf("[%s]", strings.ToUpper(kindValue))}
	parts = append(parts, fmt.Sprintf("step=%d", step))
	parts = append(parts, fmt.Sprintf("train=%d", training))
	parts = append(parts, fmt.Sprintf("test=%d", test))
	for _, name := range []string{"accuracy", "precision", "recall", "f1"} {
		if v, ok := scores[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.6f", name, v))
		}
	}
	return strings.Join(parts, " ")
}

// encodePayload renders strings as-is and everything else as compact JSON.
func encodePayload(payload any) string {
	if text, ok := payload.(string); ok {
		if strings.TrimSpace(text) == "" {
			return `""`
		}
		return text
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}
	return string(data)
}
