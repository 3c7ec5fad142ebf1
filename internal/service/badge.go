package service

import (
	"bytes"
	"fmt"
	"strconv"

	"employee/backend/internal/entity"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRContent is the text encoded in an employee badge.
func QRContent(e entity.Employee) string {
	return fmt.Sprintf("employee:%d;email:%s", e.ID, e.Email)
}

// QRCode renders the employee badge as a PNG.
func QRCode(e entity.Employee) ([]byte, error) {
	png, err := qrcode.Encode(QRContent(e), qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}

	return png, nil
}

// BadgeSheet lays out one badge per employee on A4 pages, three across.
func BadgeSheet(employees []entity.Employee) ([]byte, error) {
	const (
		perRow  = 3
		perPage = 12
		cellW   = 60.0
		cellH   = 68.0
		qrW     = 45.0
		marginX = 15.0
		marginY = 12.0
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetAutoPageBreak(false, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(employees) == 0 {
		pdf.AddPage()
	}

	for i, e := range employees {
		if i%perPage == 0 {
			pdf.AddPage()
		}

		slot := i % perPage
		x := marginX + float64(slot%perRow)*cellW
		y := marginY + float64(slot/perRow)*cellH

		png, err := QRCode(e)
		if err != nil {
			return nil, err
		}

		name := "qr-" + strconv.FormatInt(e.ID, 10)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, x+(cellW-qrW)/2, y, qrW, qrW, false, opts, 0, "")

		pdf.SetXY(x, y+qrW+2)
		pdf.CellFormat(cellW, 5, tr(e.FullName()), "", 2, "C", false, 0, "")
		pdf.CellFormat(cellW, 5, tr(e.Department+" / "+e.Position), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering badge sheet")
	}

	return buf.Bytes(), nil
}
