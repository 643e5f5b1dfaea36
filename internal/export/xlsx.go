package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pefman/warcry-anvil/internal/game"
)

// SheetName is the worksheet holding the fighter card.
const SheetName = "Fighter"

// profileHeaderRow is where the attack profile table starts, below the summary.
const profileHeaderRow = 9

var profileHeader = []string{"Attack", "Range", "Attacks", "Strength", "Damage", "Crit", "Runemark"}

// WriteFighterCard renders res as a single-sheet workbook to w.
func WriteFighterCard(w io.Writer, res game.Result) error {
	f, err := build(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write fighter card: %w", err)
	}
	return nil
}

// SaveFighterCard writes the card into dir and returns the file path.
func SaveFighterCard(dir string, res game.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, FileName(res))

	f, err := build(res)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("save fighter card: %w", err)
	}
	return outPath, nil
}

// FileName is the card's default file name, e.g. "Old_Grum_Duardin.xlsx".
func FileName(res game.Result) string {
	return fmt.Sprintf("%s_%s.xlsx", sanitizeFilenamePart(res.Name), sanitizeFilenamePart(res.Selection.FighterType))
}

func build(res game.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}
	sh := SheetName

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		f.Close()
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	textStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	f.SetCellValue(sh, "A1", res.Name)
	_ = f.MergeCell(sh, "A1", "G1")
	_ = f.SetCellStyle(sh, "A1", "G1", titleStyle)

	summary := [][2]any{
		{"Fighter", res.Selection.FighterType},
		{"Faction", res.FactionRunemark},
		{"Archetype", res.Selection.Archetype},
		{"Runemarks", strings.Join(res.Runemarks, ", ")},
		{"Divine Blessing", res.BlessingText},
	}
	for i, kv := range summary {
		row := i + 2
		f.SetCellValue(sh, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sh, fmt.Sprintf("B%d", row), kv[1])
		_ = f.MergeCell(sh, fmt.Sprintf("B%d", row), fmt.Sprintf("G%d", row))
	}
	_ = f.SetCellStyle(sh, "B6", "G6", textStyle)

	// Headline stats.
	f.SetCellValue(sh, "A7", "Move")
	f.SetCellValue(sh, "B7", res.Movement())
	f.SetCellValue(sh, "C7", "Toughness")
	f.SetCellValue(sh, "D7", res.Toughness())
	f.SetCellValue(sh, "E7", "Wounds")
	f.SetCellValue(sh, "F7", res.Wounds())
	_ = f.SetCellStyle(sh, "A2", "A7", headerStyle)
	_ = f.SetCellStyle(sh, "C7", "C7", headerStyle)
	_ = f.SetCellStyle(sh, "E7", "E7", headerStyle)

	row := profileHeaderRow
	for i, h := range profileHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sh, cell, h)
	}
	_ = f.SetCellStyle(sh, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), headerStyle)
	row++
	for _, p := range res.Profiles {
		name := p.Name
		if p.Blessed {
			name += " (Blessed)"
		}
		f.SetCellValue(sh, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sh, fmt.Sprintf("B%d", row), fmt.Sprintf("%d-%d", p.Range[0], p.Range[1]))
		f.SetCellValue(sh, fmt.Sprintf("C%d", row), p.Attacks)
		f.SetCellValue(sh, fmt.Sprintf("D%d", row), p.Strength)
		f.SetCellValue(sh, fmt.Sprintf("E%d", row), p.Damage)
		f.SetCellValue(sh, fmt.Sprintf("F%d", row), p.Crit)
		f.SetCellValue(sh, fmt.Sprintf("G%d", row), p.WeaponRunemark)
		row++
	}

	row++ // blank row before points
	f.SetCellValue(sh, fmt.Sprintf("A%d", row), "Points")
	_ = f.SetCellStyle(sh, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++
	for _, item := range res.Points.Items {
		f.SetCellValue(sh, fmt.Sprintf("A%d", row), item.Kind)
		f.SetCellValue(sh, fmt.Sprintf("B%d", row), item.Name)
		f.SetCellValue(sh, fmt.Sprintf("C%d", row), item.Points)
		row++
	}
	f.SetCellValue(sh, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sh, fmt.Sprintf("C%d", row), res.Points.Total)
	_ = f.SetCellStyle(sh, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
	row++

	if len(res.Messages) > 0 {
		row++
		f.SetCellValue(sh, fmt.Sprintf("A%d", row), "Messages")
		_ = f.SetCellStyle(sh, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		row++
		for _, msg := range res.Messages {
			cell := fmt.Sprintf("A%d", row)
			f.SetCellValue(sh, cell, msg)
			_ = f.MergeCell(sh, cell, fmt.Sprintf("G%d", row))
			_ = f.SetCellStyle(sh, cell, fmt.Sprintf("G%d", row), textStyle)
			row++
		}
	}

	if err := f.SetColWidth(sh, "A", "A", 22); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sh, "B", "G", 12); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func sanitizeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	// Windows forbidden: <>:"/\\|?*
	repl := strings.NewReplacer(
		"<", "_",
		">", "_",
		":", "_",
		"\"", "_",
		"/", "_",
		"\\", "_",
		"|", "_",
		"?", "_",
		"*", "_",
		" ", "_",
	)
	return repl.Replace(s)
}
