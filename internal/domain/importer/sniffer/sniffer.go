// Package sniffer detects the shape of delimited statement exports: the
// field delimiter, the header row buried under metadata lines, and a
// fingerprint that identifies a bank's export format across uploads.
package sniffer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Statement exports label their columns from a small shared vocabulary.
var headerKeywords = []string{
	"date", "post date", "transaction date", "posted",
	"description", "merchant", "payee", "memo", "details",
	"amount", "debit", "credit", "balance",
	"category", "type", "check", "reference",
}

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoHeadersFound   = errors.New("could not find data headers")
	ErrInvalidDelimiter = errors.New("could not detect valid delimiter")
)

// FileConfig is the detected layout of a delimited export.
type FileConfig struct {
	Delimiter   rune
	SkipLines   int
	Headers     []string
	Fingerprint string
	SampleRows  [][]string
}

// DetectConfig locates the header row and delimiter of a CSV/TSV export.
// Banks routinely prepend metadata lines (account summaries, date ranges)
// before the real header; those are reported via SkipLines.
func DetectConfig(data []byte) (*FileConfig, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	rows := strings.Split(string(data), "\n")
	delimiter, skip, err := findHeaderRow(rows)
	if err != nil {
		return nil, err
	}

	headerLine := cleanLine(rows[skip], skip == 0)
	reader := csv.NewReader(strings.NewReader(headerLine))
	reader.Comma = delimiter
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	headers = DedupeHeaders(headers)

	return &FileConfig{
		Delimiter:   delimiter,
		SkipLines:   skip,
		Headers:     headers,
		Fingerprint: fingerprint(headers),
		SampleRows:  sampleRows(data, delimiter, skip+1, 5),
	}, nil
}

// DedupeHeaders disambiguates repeated column names with numeric suffixes,
// so "Date, Amount, Amount" becomes "Date, Amount, Amount_2". Decoders that
// map by header name need distinct keys.
func DedupeHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		seen[key]++
		if key != "" && seen[key] > 1 {
			out[i] = fmt.Sprintf("%s_%d", h, seen[key])
			continue
		}
		out[i] = h
	}
	return out
}

// findHeaderRow scores the first 20 lines: a line with several column
// keywords and several delimited fields wins; the widest non-keyword line is
// the fallback.
func findHeaderRow(rows []string) (rune, int, error) {
	bestIdx, bestCount, bestScore := -1, 0, 0
	var bestDelim rune
	fallbackIdx, fallbackCount := -1, 0
	var fallbackDelim rune

	for i, row := range rows {
		if i > 20 {
			break
		}
		line := cleanLine(row, i == 0)
		if line == "" {
			continue
		}
		delim, count := detectDelimiter(line)
		if count < 1 {
			continue
		}

		matches := 0
		lower := strings.ToLower(line)
		for _, kw := range headerKeywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}

		if matches > 0 {
			score := count*10 + matches
			if bestIdx == -1 || score > bestScore {
				bestIdx, bestCount, bestScore, bestDelim = i, count, score, delim
			}
		} else if count > fallbackCount {
			fallbackIdx, fallbackCount, fallbackDelim = i, count, delim
		}
	}

	if bestIdx >= 0 && bestCount >= 2 {
		return bestDelim, bestIdx, nil
	}
	if fallbackCount >= 2 {
		return fallbackDelim, fallbackIdx, nil
	}
	return 0, 0, ErrNoHeadersFound
}

func cleanLine(line string, first bool) string {
	line = strings.TrimRight(line, "\r")
	if first {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return strings.TrimSpace(line)
}

func detectDelimiter(line string) (rune, int) {
	best := rune(0)
	bestCount := 0
	for _, d := range []rune{',', '\t', ';', '|'} {
		if c := strings.Count(line, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best, bestCount
}

func fingerprint(headers []string) string {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}

func sampleRows(data []byte, delimiter rune, start, max int) [][]string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if line >= start {
			rows = append(rows, record)
			if len(rows) >= max {
				break
			}
		}
		line++
	}
	return rows
}
