// Package report renders the day's blocks, progress and rewards as a PDF.
package report

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/julianstephens/focusblocks/internal/models"
)

// Source is the read side of the tracker the report needs.
type Source interface {
	Today() string
	Progress() models.Progress
	TasksForBlock(block models.Block) iter.Seq[models.Task]
	Rewards() []models.RewardRule
	Claimed() models.ClaimedRewards
}

// DefaultFilename names a report after the local date of t.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("focusblocks-report-%s.pdf", t.Format("2006-01-02"))
}

// Write renders the report for src into w.
func Write(w io.Writer, src Source) error {
	pdf := build(src)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Generate renders the report for src into a new file at path.
func Generate(path string, src Source) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	pdf := build(src)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func build(src Source) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; emoji fall out as '?', so block and reward
	// names are written without them.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Daily Focus Blocks", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr("Daily Focus Blocks"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 8, tr(src.Today()))
	pdf.Ln(12)

	p := src.Progress()
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Progress")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("%d / %d tasks completed", p.Completed, p.Total))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("%d / %d points (%d%%)", p.EarnedPoints, p.TotalPoints, p.Percent))
	pdf.Ln(8)
	drawBar(pdf, p.Percent)
	pdf.Ln(10)

	for _, info := range models.Blocks() {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%s)", info.Name, info.Time)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 12)
		empty := true
		for task := range src.TasksForBlock(info.Block) {
			empty = false
			status := "[ ]"
			if task.Completed {
				status = "[x]"
			}
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("  %s %s", status, task.Text)), "", "", false)
		}
		if empty {
			pdf.SetFont("Arial", "I", 11)
			pdf.Cell(0, 6, "  No tasks yet.")
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	claimed := src.Claimed()
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Rewards")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	for _, r := range src.Rewards() {
		state := "locked"
		switch {
		case claimed[r.Threshold]:
			state = "claimed"
		case p.Percent >= r.Threshold:
			state = "available"
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("  %d%%  %s  (%s)", r.Threshold, r.Name, state)))
		pdf.Ln(6)
	}

	return pdf
}

func drawBar(pdf *fpdf.Fpdf, percent int) {
	const width, height = 120.0, 5.0
	x, y := pdf.GetXY()

	pdf.SetFillColor(229, 231, 235)
	pdf.Rect(x, y, width, height, "F")
	if percent > 0 {
		pdf.SetFillColor(16, 185, 129)
		pdf.Rect(x, y, width*float64(min(percent, 100))/100, height, "F")
	}
	pdf.SetXY(x, y+height)
}
