// Package pdf renders the printable appointment report. Section order is
// fixed: patient info, chronic conditions, recent conditions, vitals,
// appointment info, report sections, MIS confirmation line. Rendering never
// fails solely because optional sections are empty.
package pdf

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// cp1251.map is copied verbatim from go-pdf/fpdf's font directory; the
// library only embeds cp1250/cp1252, so the cp1251 descriptor must be
// supplied by the caller.
//
//go:embed cp1251.map
var cp1251Map []byte

type AppointmentData struct {
	Date      string
	TimeStart string
	TimeEnd   string
	Status    string
}

type HealthIndicatorData struct {
	Hemoglobin  *float64
	Cholesterol *float64
	BMI         *float64
	HeartRate   *int
}

type PatientData struct {
	FullName            string
	Gender              string // male | female
	Age                 int
	DateOfBirth         string
	MedicalOrganization string
	MedicalArea         string
	ChronicDiseases     []string
	RecentDiseases      []string
	HealthIndicators    *HealthIndicatorData
}

type ReportData struct {
	Purpose        *string
	Complaints     *string
	Anamnesis      *string
	SubmittedToMIS bool
	SubmittedAt    string
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// AppointmentReport renders the visit document. report may be nil.
func (r *Renderer) AppointmentReport(app AppointmentData, p PatientData, report *ReportData) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	// Core fonts are cp1252-only; cp1251 translation keeps Cyrillic text
	// renderable without shipping a TTF.
	tr, err := fpdf.UnicodeTranslator(bytes.NewReader(cp1251Map))
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr("Медицинский отчет о приеме"), "", 1, "C", false, 0, "")
	doc.Ln(5)

	r.heading(doc, tr, "Информация о пациенте")
	gender := "Женский"
	if p.Gender == "male" {
		gender = "Мужской"
	}
	r.labelValue(doc, tr, "ФИО:", orDefault(p.FullName, "Не указано"))
	r.labelValue(doc, tr, "Пол:", gender)
	r.labelValue(doc, tr, "Возраст:", fmt.Sprintf("%d", p.Age))
	r.labelValue(doc, tr, "Дата рождения:", orDefault(p.DateOfBirth, "Не указана"))
	r.labelValue(doc, tr, "МО прикрепления:", orDefault(p.MedicalOrganization, "Не указано"))
	r.labelValue(doc, tr, "Участок:", orDefault(p.MedicalArea, "Не указан"))
	doc.Ln(4)

	if len(p.ChronicDiseases) > 0 {
		r.heading(doc, tr, "Хронические заболевания")
		for _, name := range p.ChronicDiseases {
			r.bullet(doc, tr, name)
		}
		doc.Ln(3)
	}

	if len(p.RecentDiseases) > 0 {
		r.heading(doc, tr, "Последние заболевания")
		for _, name := range p.RecentDiseases {
			r.bullet(doc, tr, name)
		}
		doc.Ln(3)
	}

	if hi := p.HealthIndicators; hi != nil {
		rows := make([][2]string, 0, 4)
		if hi.Hemoglobin != nil {
			rows = append(rows, [2]string{"Гемоглобин:", fmt.Sprintf("%.1f г/л", *hi.Hemoglobin)})
		}
		if hi.Cholesterol != nil {
			rows = append(rows, [2]string{"Холестерин:", fmt.Sprintf("%.1f ммоль/л", *hi.Cholesterol)})
		}
		if hi.BMI != nil {
			// cp1251 has no superscript two, so the unit is spelled flat.
			rows = append(rows, [2]string{"ИМТ:", fmt.Sprintf("%.1f кг/м2", *hi.BMI)})
		}
		if hi.HeartRate != nil {
			rows = append(rows, [2]string{"ЧСС:", fmt.Sprintf("%d уд/мин", *hi.HeartRate)})
		}
		if len(rows) > 0 {
			r.heading(doc, tr, "Показатели здоровья")
			for _, row := range rows {
				r.labelValue(doc, tr, row[0], row[1])
			}
			doc.Ln(4)
		}
	}

	r.heading(doc, tr, "Информация о приеме")
	r.labelValue(doc, tr, "Дата:", orDefault(app.Date, "Не указана"))
	r.labelValue(doc, tr, "Время:", fmt.Sprintf("%s–%s", app.TimeStart, app.TimeEnd))
	r.labelValue(doc, tr, "Статус:", orDefault(app.Status, "Не указан"))
	doc.Ln(4)

	if report != nil {
		r.heading(doc, tr, "Медицинский отчет")
		r.textSection(doc, tr, "Цель обращения:", report.Purpose)
		r.textSection(doc, tr, "Жалобы пациента:", report.Complaints)
		r.textSection(doc, tr, "Анамнез:", report.Anamnesis)

		if report.SubmittedToMIS {
			doc.SetFont("Helvetica", "", 11)
			doc.SetTextColor(5, 150, 105)
			doc.MultiCell(0, 6, tr(fmt.Sprintf("Отчет отправлен в МИС: %s", report.SubmittedAt)), "", "L", false)
			doc.SetTextColor(51, 51, 51)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) heading(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(26, 26, 26)
	doc.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func (r *Renderer) labelValue(doc *fpdf.Fpdf, tr func(string) string, label, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(51, 51, 51)
	doc.MultiCell(0, 6, tr(value), "", "L", false)
}

func (r *Renderer) bullet(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(51, 51, 51)
	doc.MultiCell(0, 6, tr("• "+text), "", "L", false)
}

func (r *Renderer) textSection(doc *fpdf.Fpdf, tr func(string) string, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(0, 6, tr(label), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(51, 51, 51)
	doc.MultiCell(0, 6, tr(*value), "", "L", false)
	doc.Ln(3)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
