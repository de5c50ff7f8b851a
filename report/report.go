// Package report persists benchmark results to sequentially numbered
// CSV files and formats summary tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zhaorui-bi/crypto-ncRNA/harness"
)

const (
	filePrefix = "usage_"
	fileSuffix = ".csv"
)

var csvHeader = []string{
	"Algorithm",
	"Data Length",
	"Encryption Memory Usage (MB)",
	"Decryption Memory Usage (MB)",
}

// NextFileNumber scans dir for files named usage_<N>.csv and returns
// max(N)+1, or 1 when none exist. Filenames whose numeric component
// does not parse are skipped. The directory is created if absent.
func NextFileNumber(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create results dir %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scan results dir %s: %w", dir, err)
	}

	next := 1

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			// Malformed numeric component: not ours to fail on.
			continue
		}

		if n+1 > next {
			next = n + 1
		}
	}

	return next, nil
}

// Persist appends every sample triple in table to usage_<fileNumber>.csv
// under dir and returns the file path. The header row is written only
// when the file is newly created, so reusing a number within one run
// appends rows without duplicating it. Algorithms appear in table
// order, and rows within an algorithm in the runner's recorded order.
func Persist(table *harness.AggregateTable, fileNumber int, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s%d%s", filePrefix, fileNumber, fileSuffix))

	_, statErr := os.Stat(path)
	writeHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open result file %s: %w", path, err)
	}

	w := csv.NewWriter(f)

	if writeHeader {
		w.Write(csvHeader)
	}

	for _, rs := range table.Sets() {
		for i := range rs.DataLengths {
			w.Write([]string{
				rs.Algorithm,
				strconv.Itoa(rs.DataLengths[i]),
				formatMB(rs.EncryptionMemory[i]),
				formatMB(rs.DecryptionMemory[i]),
			})
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()

		return "", fmt.Errorf("write result file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close result file %s: %w", path, err)
	}

	return path, nil
}

// summaryRow is the per-(algorithm, data length) average of a table.
type summaryRow struct {
	Algorithm     string  `json:"algorithm"`
	DataLength    int     `json:"data_length"`
	Trials        int     `json:"trials"`
	MeanEncryptMB float64 `json:"mean_encrypt_mb"`
	MeanDecryptMB float64 `json:"mean_decrypt_mb"`
}

// Summarize writes a markdown table of mean memory usage per algorithm
// and data length to w.
func Summarize(w io.Writer, table *harness.AggregateTable) error {
	rows := summarize(table)
	if len(rows) == 0 {
		return fmt.Errorf("no results to summarize")
	}

	fmt.Fprintln(w, "## Memory Usage Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Algorithm | Data Length | Trials "+
		"| Mean Encrypt (MB) | Mean Decrypt (MB) |")
	fmt.Fprintln(w, "|-----------|-------------|--------"+
		"|-------------------|-------------------|")

	for _, row := range rows {
		fmt.Fprintf(w, "| %s | %d | %d | %s | %s |\n",
			row.Algorithm,
			row.DataLength,
			row.Trials,
			formatMB(row.MeanEncryptMB),
			formatMB(row.MeanDecryptMB),
		)
	}

	return nil
}

// SummarizeJSON writes the summary rows as indented JSON to w.
func SummarizeJSON(w io.Writer, table *harness.AggregateTable) error {
	rows := summarize(table)
	if len(rows) == 0 {
		return fmt.Errorf("no results to summarize")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

func summarize(table *harness.AggregateTable) []summaryRow {
	var rows []summaryRow

	for _, rs := range table.Sets() {
		index := make(map[int]int) // data length -> row position

		for i := range rs.DataLengths {
			length := rs.DataLengths[i]

			pos, ok := index[length]
			if !ok {
				pos = len(rows)
				index[length] = pos

				rows = append(rows, summaryRow{
					Algorithm:  rs.Algorithm,
					DataLength: length,
				})
			}

			rows[pos].Trials++
			rows[pos].MeanEncryptMB += rs.EncryptionMemory[i]
			rows[pos].MeanDecryptMB += rs.DecryptionMemory[i]
		}
	}

	for i := range rows {
		rows[i].MeanEncryptMB /= float64(rows[i].Trials)
		rows[i].MeanDecryptMB /= float64(rows[i].Trials)
	}

	return rows
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 6, 64)
}
