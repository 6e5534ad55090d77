package infra

// pdf.go — Quote PDF snapshot rendering using go-pdf/fpdf.
// Generates an A4 document with:
//   - Business header and quote description
//   - Client block (name, CUIT, email)
//   - Item table (product, code, quantity, unit price, line subtotal)
//   - Subtotal / IVA / bold total
//
// Rendering is a pure function of the quote snapshot passed in: the caller
// (the lifecycle transition) decides when to render and where the bytes go.

import (
	"bytes"
	"fmt"

	"github.com/mncort/forestalApp-sub000/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PresupuestoPDF renders quote PDFs. It satisfies service.RenderizadorPDF.
type PresupuestoPDF struct {
	nombreNegocio string
}

func NewPresupuestoPDF(nombreNegocio string) *PresupuestoPDF {
	if nombreNegocio == "" {
		nombreNegocio = "ForestalApp"
	}
	return &PresupuestoPDF{nombreNegocio: nombreNegocio}
}

// Render produces the PDF bytes for a quote with its items and totals.
func (r *PresupuestoPDF) Render(p *model.Presupuesto, cliente *model.Cliente, items []model.PresupuestoItem, tot model.Totales) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, r.nombreNegocio, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Presupuesto", "", 1, "L", false, 0, "")
	if p.Descripcion != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 5, p.Descripcion, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Client block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Cliente", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if cliente != nil {
		pdf.CellFormat(contentW, 5, cliente.Nombre, "", 1, "L", false, 0, "")
		if cliente.CUIT != "" {
			pdf.CellFormat(contentW, 5, "CUIT: "+cliente.CUIT, "", 1, "L", false, 0, "")
		}
		if cliente.Email != "" {
			pdf.CellFormat(contentW, 5, cliente.Email, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.38 // product
	col2 := contentW * 0.14 // code
	col3 := contentW * 0.10 // qty
	col4 := contentW * 0.19 // unit price
	col5 := contentW * 0.19 // line subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Codigo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "P. Unit.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		nombre := item.ProductoNombre
		if len(nombre) > 38 {
			nombre = nombre[:37] + "…"
		}
		linea := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		pdf.CellFormat(col1, 6, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.ProductoCodigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+item.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "$"+linea.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "$"+tot.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, fmt.Sprintf("IVA (%s%%):", tot.TasaIVA.String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "$"+tot.MontoIVA.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "TOTAL "+tot.Moneda+":", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, "$"+tot.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Presupuesto sujeto a disponibilidad de stock.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render presupuesto %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}
