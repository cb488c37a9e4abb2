package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// OutputDestination receives JSON encoded events per topic.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

// decodeEvent unpacks a message and returns the partition directory,
// topic/date=YYYY-MM-DD/run=<id>, that it belongs to.
func decodeEvent(basePath, folder, topic string, msg []byte) (map[string]interface{}, string, error) {
	var event map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		return nil, "", err
	}

	number, ok := event["timestamp"].(json.Number)
	if !ok {
		return nil, "", fmt.Errorf("invalid timestamp")
	}
	timestamp, err := number.Int64()
	if err != nil {
		return nil, "", fmt.Errorf("invalid timestamp: %w", err)
	}
	runID, _ := event["runId"].(string)
	if runID == "" {
		runID = "unknown"
	}

	eventTime := time.Unix(timestamp, 0).UTC()
	partitionPath := fmt.Sprintf("date=%s/run=%s", eventTime.Format("2006-01-02"), runID)
	return event, filepath.Join(basePath, folder, topic, partitionPath), nil
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	event, fullPath, err := decodeEvent(c.basePath, c.folder, topic, msg)
	if err != nil {
		return err
	}

	csvWriter, ok := c.writers[fullPath]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[fullPath] = file
		c.writers[fullPath] = csvWriter

		headers := c.getHeaders(event)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[fullPath] = headers
	}

	row := make([]string, len(c.headers[fullPath]))
	for i, header := range c.headers[fullPath] {
		value, ok := event[header]
		if !ok {
			row[i] = ""
		} else {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// getHeaders uses the first event's keys. Later events missing a key, such as
// a break without an order number, leave that column empty.
func (c *CSVOutput) getHeaders(event map[string]interface{}) []string {
	headers := []string{"orderNumber"}
	for key := range event {
		if key != "orderNumber" {
			headers = append(headers, key)
		}
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	var lastErr error
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			lastErr = err
		}
		if err := c.files[key].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	event, fullPath, err := decodeEvent(j.basePath, j.folder, topic, msg)
	if err != nil {
		return err
	}

	file, ok := j.files[fullPath]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fullPath] = file
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := file.Write(jsonData); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	var lastErr error
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
