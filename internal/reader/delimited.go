package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// candidateDelimiters are tried in order; ties go to the earlier entry, so
// comma wins over pipe for single-column files.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

const sniffLines = 10

// ReadDelimited decodes delimited text into a row grid. The delimiter is
// sniffed from the first few lines by column-count consistency; the decoder
// tolerates ragged rows and sloppy quoting.
func ReadDelimited(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	delim := sniffDelimiter(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode delimited text: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// sniffDelimiter scores each candidate by how many columns it yields and
// how consistent that count stays across the sampled lines.
func sniffDelimiter(data []byte) rune {
	lines := sampleLines(data, sniffLines)

	best := candidateDelimiters[0]
	bestScore := -1.0
	for _, delim := range candidateDelimiters {
		counts := make(map[int]int)
		total := 0
		for _, line := range lines {
			n := fieldCount(line, delim)
			counts[n]++
			total++
		}
		if total == 0 {
			continue
		}

		modal, modalCount := 0, 0
		for n, c := range counts {
			if c > modalCount || (c == modalCount && n > modal) {
				modal, modalCount = n, c
			}
		}
		if modal < 2 {
			continue
		}
		consistency := float64(modalCount) / float64(total)
		score := consistency * float64(modal)
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func sampleLines(data []byte, limit int) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= limit {
			break
		}
	}
	return lines
}

// fieldCount counts delimiter-separated fields outside double quotes.
func fieldCount(line string, delim rune) int {
	count := 1
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}
