package printer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/inspectflow/inspectflow/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GenerateWorkOrderPDF renders one inspection as a printable field sheet.
// The QR code carries a deep link back to the record so a tech can pull it
// up on a phone from the printed page.
func GenerateWorkOrderPDF(insp *models.Inspection) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Inspection Work Order", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Record #%d - %s", insp.ID, insp.Company), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// QR deep link in the top-right corner
	baseURL := os.Getenv("PUBLIC_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3110"
	}
	qrContent := fmt.Sprintf("%s/api/inspections/%d", baseURL, insp.ID)
	qrPng, err := qrcode.Encode(qrContent, qrcode.Low, 256)
	if err != nil {
		return nil, err
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("qr_link", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr_link", 165, 12, 30, 30, false, imgOptions, 0, "")

	// Property block
	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	writeRow("Address", fmt.Sprintf("%s, %s, %s %s", insp.Address, insp.City, insp.State, insp.Zip))
	writeRow("Insured", insp.FullName())
	if insp.Phone != "" {
		writeRow("Phone", insp.Phone)
	}
	if insp.ClaimNumber != "" {
		writeRow("Claim #", insp.ClaimNumber)
	}
	if insp.PolicyNumber != "" {
		writeRow("Policy #", insp.PolicyNumber)
	}
	if insp.InspectionType != "" {
		writeRow("Type", insp.InspectionType)
	}
	if insp.PropertyType != "" {
		writeRow("Property", insp.PropertyType)
	}
	if insp.SquareFootage > 0 {
		writeRow("Square Footage", fmt.Sprintf("%d", insp.SquareFootage))
	}
	if insp.YearBuilt > 0 {
		writeRow("Year Built", fmt.Sprintf("%d", insp.YearBuilt))
	}

	pdf.Ln(2)
	if insp.DueDate != nil {
		writeRow("Due", insp.DueDate.Format("Jan 2, 2006"))
	}
	if insp.AppointmentAt != nil {
		writeRow("Appointment", insp.AppointmentAt.Format("Jan 2, 2006 3:04 PM"))
	}
	writeRow("Urgency", insp.Urgency)

	// Notes section with room to write in the field
	if insp.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, insp.Notes, "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Field Findings", "", 1, "L", false, 0, "")
	pdf.SetDrawColor(180, 180, 180)
	y := pdf.GetY()
	for i := 0; i < 10; i++ {
		pdf.Line(15, y+float64(i)*8+6, 195, y+float64(i)*8+6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
