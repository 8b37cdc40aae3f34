// Package catalog provides a small, deterministic, concurrency-safe lookup
// of bookable service types built from a Markdown table. It is intentionally
// dependency-free and engineered for read-mostly use:
//
//   - No logging in the library (callers decide how/what to log)
//   - Immutable, read-only catalog after construction (safe for concurrent use)
//   - Normalized, case/whitespace-insensitive lookups
//   - Sensible parsing defaults (header and separator rows ignored)
//
// The catalog is a dictionary, not an interpreter: free-text understanding of
// what a sender wants stays upstream in the conversation engine. Here a
// serviceType either resolves to a known entry or it does not.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Service is one bookable catalog entry.
type Service struct {
	// Name is the canonical display name from the source table.
	Name string
	// DurationHours is the default booked span.
	DurationHours float64
	// Price is the standard charge; zero when Free.
	Price float64
	// Free marks complimentary services ("gratis"/"free"/0 in the source).
	Free bool
}

// Catalog is an immutable set of services keyed by normalized name.
type Catalog struct {
	byName map[string]Service
	names  []string
}

// Load reads the Markdown file at path and builds a Catalog from its table
// rows. Expected row shape:
//
//	| Name | Hours | Price |
//
// Header rows, separator rows (|---|), and prose outside tables are ignored.
// A row whose hours or price cannot be parsed is an error: a half-loaded
// catalog would silently misprice bookings.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := &Catalog{byName: make(map[string]Service)}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if len(cells) < 3 || isHeaderOrSeparator(cells) {
			continue
		}

		svc, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("services table line %d: %w", lineNo, err)
		}
		key := Normalize(svc.Name)
		if key == "" {
			continue
		}
		if _, dup := c.byName[key]; !dup {
			c.names = append(c.names, svc.Name)
		}
		c.byName[key] = svc
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup resolves name to a catalog entry. Matching is case-insensitive and
// collapses surrounding/internal whitespace.
func (c *Catalog) Lookup(name string) (Service, bool) {
	svc, ok := c.byName[Normalize(name)]
	return svc, ok
}

// Names returns the canonical service names in source order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int { return len(c.byName) }

// Normalize lower-cases name, trims it, and collapses runs of inner
// whitespace to single spaces so " Corte  de Cabello " and "corte de
// cabello" resolve to the same entry.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// splitRow breaks "| a | b | c |" into trimmed cells.
func splitRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// isHeaderOrSeparator reports whether cells form a table header or the
// |---|---| separator line.
func isHeaderOrSeparator(cells []string) bool {
	dashish := true
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			dashish = false
			break
		}
	}
	if dashish {
		return true
	}
	// Header heuristic: a row where neither the hours nor the price column
	// parses as a number (or a free marker) is a label row, not bad data.
	_, hoursErr := strconv.ParseFloat(cells[1], 64)
	if hoursErr == nil {
		return false
	}
	price := strings.ToLower(cells[2])
	if price == "gratis" || price == "free" {
		return false
	}
	_, priceErr := strconv.ParseFloat(strings.TrimPrefix(price, "$"), 64)
	return priceErr != nil
}

// parseRow converts a data row into a Service.
func parseRow(cells []string) (Service, error) {
	name := cells[0]
	if name == "" {
		return Service{}, fmt.Errorf("empty service name")
	}

	hours, err := strconv.ParseFloat(cells[1], 64)
	if err != nil || hours <= 0 {
		return Service{}, fmt.Errorf("invalid duration %q", cells[1])
	}

	priceCell := strings.ToLower(strings.TrimSpace(cells[2]))
	if priceCell == "gratis" || priceCell == "free" {
		return Service{Name: name, DurationHours: hours, Price: 0, Free: true}, nil
	}
	price, err := strconv.ParseFloat(strings.TrimPrefix(priceCell, "$"), 64)
	if err != nil || price < 0 {
		return Service{}, fmt.Errorf("invalid price %q", cells[2])
	}
	return Service{
		Name:          name,
		DurationHours: hours,
		Price:         price,
		Free:          price == 0,
	}, nil
}
