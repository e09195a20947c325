package rendering

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/kalambet/devo/internal/devotional"
)

// PDFExporter shells out to a markdown-to-PDF converter and verifies
// the result before returning it. The zero value uses pandoc.
type PDFExporter struct {
	Command string   // converter binary, default "pandoc"
	Args    []string // extra args inserted before input/output paths
	Logger  *slog.Logger
}

func (e *PDFExporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Export renders the book to markdown, converts it to PDF, and returns
// the verified bytes. Returns an error when the converter fails or the
// output is not a readable PDF.
func (e *PDFExporter) Export(ctx context.Context, book devotional.Book, mode devotional.OutputMode) ([]byte, error) {
	renderer := &Renderer{}
	doc := renderer.Render(book)
	markdown := Markdown(doc)

	dir, err := os.MkdirTemp("", "devo-export-")
	if err != nil {
		return nil, fmt.Errorf("creating export workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "book.md")
	outputPath := filepath.Join(dir, "book.pdf")
	if err := os.WriteFile(inputPath, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("writing export markdown: %w", err)
	}

	command := e.Command
	if command == "" {
		command = "pandoc"
	}
	args := append(append([]string{}, e.Args...), inputPath, "-o", outputPath)

	cmd := exec.CommandContext(ctx, command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger().Info("exporting book", "title", doc.Title, "mode", mode, "converter", command)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s: %w: %s", command, err, stderr.String())
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reading converter output: %w", err)
	}
	if err := VerifyPDF(data); err != nil {
		return nil, err
	}
	return data, nil
}

// VerifyPDF checks the magic header and confirms the document parses
// with at least one page.
func VerifyPDF(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("output is not a PDF (missing %%PDF- header)")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parsing exported PDF: %w", err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("exported PDF has no pages")
	}
	return nil
}
