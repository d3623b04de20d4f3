package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator is an interface so handlers and services can be tested with a
// mock instead of producing real files.
type Generator interface {
	GenerateActe(data ActeData) (string, error)
}

// DocumentGenerator renders civil-status certificates as A4 PDFs.
type DocumentGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // TTF path, e.g. "assets/fonts/DejaVuSans.ttf"
	fontName string
}

// Champ is a labelled value printed on the certificate body.
type Champ struct {
	Cle    string
	Valeur string
}

// ActeData carries everything the certificate layout needs. Champs holds the
// per-document-type fields in display order.
type ActeData struct {
	Numero    string
	Titre     string // document type label, e.g. "Acte de naissance"
	Demandeur string
	Raison    string
	CreatedAt time.Time
	Champs    []Champ
	Filename  string // base name only; derived from Numero when empty
}

func NewDocumentGenerator(rootDir, fontPath string) *DocumentGenerator {
	return &DocumentGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateActe writes the certificate PDF under RootDir and returns its path.
func (g *DocumentGenerator) GenerateActe(data ActeData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s.pdf", data.Numero)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s — %s", data.Titre, data.Numero), true)
	pdf.SetAuthor("Bureau National de l'État Civil", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== En-tête officiel
	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 7, "RÉPUBLIQUE DU CAMEROUN", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, "Paix — Travail — Patrie", "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, "BUREAU NATIONAL DE L'ÉTAT CIVIL", "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Titre du document
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, data.Titre, "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("N° %s  du  %s", data.Numero, data.CreatedAt.Format("02/01/2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Demandeur
	g.sectionTitle(pdf, "Demandeur")
	g.kvLine(pdf, "Identifiant", data.Demandeur)
	if data.Raison != "" {
		g.kvLine(pdf, "Motif de la demande", data.Raison)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Renseignements
	g.sectionTitle(pdf, "Renseignements")
	for _, c := range data.Champs {
		if c.Valeur == "" {
			continue
		}
		g.kvLine(pdf, c.Cle, c.Valeur)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Mentions
	pdf.SetFont(g.fontName, "", 10)
	mention := "Le présent document est délivré pour servir et valoir ce que de droit. " +
		"Toute falsification expose son auteur aux sanctions prévues par la loi."
	pdf.MultiCell(0, 5, mention, "", "L", false)
	pdf.Ln(4)

	// ===== Signature
	g.sectionTitle(pdf, "Signature")
	pdf.Ln(6)
	lineY := pdf.GetY()
	pdf.SetFont(g.fontName, "", 11)
	pdf.SetX(130)
	pdf.CellFormat(60, 6, "L'Officier d'État Civil", "", 1, "L", false, 0, "")
	pdf.SetLineWidth(0.3)
	pdf.Line(130, lineY+14, 190, lineY+14)
	pdf.SetY(lineY + 16)
	pdf.SetX(130)
	pdf.Cell(60, 5, "(signature et cachet)")

	// ===== Pagination
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb} — %s", pdf.PageNo(), data.Numero),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(60, 6, key+" :", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // no path traversal
	return filepath.Join(g.RootDir, filename), nil
}

func (g *DocumentGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
