package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
)

// ErrNoText is returned when no method produced readable statement text,
// typically for scanned or image-only PDFs.
var ErrNoText = errors.New("no readable text could be extracted from PDF")

// ExtractText reads a PDF file and returns the text of each page.
func ExtractText(ctx context.Context, filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return ExtractTextFromBytes(ctx, data)
}

// ExtractTextFromBytes returns the text of each page of an in-memory PDF.
// The structured library is tried first; pdftotext (poppler-utils) is used
// as a fallback when it is installed.
func ExtractTextFromBytes(ctx context.Context, data []byte) ([]string, error) {
	log := logger.FromContext(ctx)

	pages, method, libErr := extractWithLibrary(data)
	if libErr == nil && isReadableText(pages) {
		log.Debug().Str("method", method).Int("pages", len(pages)).Msg("PDF text extracted")
		return pages, nil
	}
	if libErr != nil {
		log.Debug().Err(libErr).Msg("PDF library extraction failed")
	}

	popplerPages, popplerErr := extractWithPdftotext(ctx, data)
	if popplerErr == nil && isReadableText(popplerPages) {
		log.Debug().Str("method", "pdftotext").Int("pages", len(popplerPages)).Msg("PDF text extracted")
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, libErr)
	}
	return nil, ErrNoText
}

// pageMethod turns an open document into page text one way.
type pageMethod struct {
	name    string
	extract func(r *pdf.Reader) []string
}

// libraryMethods are tried in order. Row grouping comes first because it
// keeps a transaction's date, description and amount on one line, which is
// what the issuer classifiers expect.
var libraryMethods = []pageMethod{
	{"rows", statementRows},
	{"content", positionedRows},
	{"plain", pagePlainText},
	{"document", documentPlainText},
}

// extractWithLibrary runs libraryMethods until one yields readable
// statement text, reporting which one did.
func extractWithLibrary(data []byte) (pages []string, method string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("opening PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return nil, "", errors.New("PDF has no pages")
	}

	for _, m := range libraryMethods {
		pages = m.extract(r)
		if isReadableText(pages) {
			return pages, m.name, nil
		}
		method = m.name
	}
	return pages, method, nil
}

// eachPage calls fn for every page that has a page object and keeps the
// non-empty results.
func eachPage(r *pdf.Reader, fn func(pdf.Page) string) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text := strings.TrimSpace(fn(page)); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func statementRows(r *pdf.Reader) []string {
	return eachPage(r, func(page pdf.Page) string {
		rows, err := page.GetTextByRow()
		if err != nil {
			return ""
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := collapseWords(words); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	})
}

// amountColumnGap is the horizontal distance, in points, that separates
// the description column from the amount columns on a statement row.
const amountColumnGap = 15

// positionedRows rebuilds statement rows from raw glyph positions: glyphs
// sharing a rounded baseline form a row, read left to right, top of the
// page first. A wide gap becomes a space so an amount never fuses with
// the description before it.
func positionedRows(r *pdf.Reader) []string {
	return eachPage(r, func(page pdf.Page) string {
		glyphs := page.Content().Text
		byBaseline := make(map[int][]pdf.Text)
		for _, g := range glyphs {
			if strings.TrimSpace(g.S) == "" {
				continue
			}
			y := int(math.Round(g.Y))
			byBaseline[y] = append(byBaseline[y], g)
		}

		baselines := make([]int, 0, len(byBaseline))
		for y := range byBaseline {
			baselines = append(baselines, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(baselines)))

		lines := make([]string, 0, len(baselines))
		for _, y := range baselines {
			row := byBaseline[y]
			sort.Slice(row, func(a, b int) bool { return row[a].X < row[b].X })

			var sb strings.Builder
			for j, g := range row {
				if j > 0 && g.X-row[j-1].X > amountColumnGap {
					sb.WriteByte(' ')
				}
				sb.WriteString(g.S)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	})
}

func pagePlainText(r *pdf.Reader) []string {
	return eachPage(r, func(page pdf.Page) string {
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return ""
		}
		return text
	})
}

// documentPlainText returns the whole document as a single page. Page
// boundaries are lost, which only matters for Amex footers.
func documentPlainText(r *pdf.Reader) []string {
	reader, err := r.GetPlainText()
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return []string{text}
	}
	return nil
}

func collapseWords(words []string) string {
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

// extractWithPdftotext shells out to poppler's pdftotext, one call per
// page so the Amex "p. N/M" footers stay at the end of their page. -layout
// keeps the amount columns on the same line as the description.
func extractWithPdftotext(ctx context.Context, data []byte) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}

	numPages := pdfinfoPageCount(ctx, tmp.Name())
	var pages []string
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", n, "-l", n, tmp.Name(), "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// pdfinfoPageCount returns the page count reported by pdfinfo, or 1.
func pdfinfoPageCount(ctx context.Context, path string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 1
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
