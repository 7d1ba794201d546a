package hora

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/user"
)

type ExportFile struct {
	Filename string
	MimeType string
	Content  []byte
}

type exportTheme struct {
	titleBg  string
	titleFg  string
	headerBg string
	headerFg string
	totalBg  string
}

var exportThemes = map[string]exportTheme{
	"light": {
		titleBg:  "111827",
		titleFg:  "FFFFFF",
		headerBg: "E5E7EB",
		headerFg: "111827",
		totalBg:  "F3F4F6",
	},
	"dark": {
		titleBg:  "1F2937",
		titleFg:  "FFFFFF",
		headerBg: "4B5563",
		headerFg: "FFFFFF",
		totalBg:  "E5E7EB",
	},
}

// ExportExcel builds one workbook with a sheet per user plus a
// company-wide summary. Non-admins always export their own hours; an
// admin exports everyone unless a userId filter is given.
func (s *service) ExportExcel(ctx context.Context, actorID, actorRole string, q ExportQuery) (*ExportFile, error) {
	if q.Desde == "" || q.Hasta == "" {
		return nil, apperr.Validation("desde y hasta son requeridos (YYYY-MM-DD)")
	}
	if q.Hasta < q.Desde {
		return nil, apperr.Validation("hasta no puede ser menor que desde")
	}

	targetUserID := actorID
	if actorRole == user.RoleAdmin {
		targetUserID = q.UserID
	}

	rows, err := s.repo.ListForExport(ctx, targetUserID, q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*ExportRow)
	identities := make(map[string]exportIdentity)
	userOrder := make([]string, 0)
	for _, row := range rows {
		if _, ok := byUser[row.UserID]; !ok {
			userOrder = append(userOrder, row.UserID)
			identities[row.UserID] = newExportIdentity(row.FirstName, row.LastName, row.Email)
		}
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	// Company-wide exports include users with no entries in range.
	if actorRole == user.RoleAdmin && targetUserID == "" {
		all, err := s.users.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range all {
			if _, ok := byUser[u.ID]; !ok {
				userOrder = append(userOrder, u.ID)
				byUser[u.ID] = nil
				identities[u.ID] = newExportIdentity(u.FirstName, u.LastName, u.Email)
			}
		}
	}

	theme, ok := exportThemes[q.Theme]
	if !ok {
		theme = exportThemes["light"]
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: theme.titleFg},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{theme.titleBg}},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "left"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: theme.headerFg},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{theme.headerBg}},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "left", WrapText: true},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{theme.totalBg}},
	})

	summarySheet := "Resumen General"
	f.SetSheetName("Sheet1", summarySheet)
	f.MergeCell(summarySheet, "A1", "B1")
	f.SetCellValue(summarySheet, "A1", "Resumen General de Horas")
	f.SetCellStyle(summarySheet, "A1", "B1", titleStyle)
	f.MergeCell(summarySheet, "A2", "B2")
	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Rango: %s a %s", q.Desde, q.Hasta))
	f.SetColWidth(summarySheet, "A", "A", 40)
	f.SetColWidth(summarySheet, "B", "B", 14)

	totalsByUser := make(map[string]float64)
	totalsByProject := make(map[string]float64)
	projectOrder := make([]string, 0)

	for _, uid := range userOrder {
		userRows := byUser[uid]

		ident := identities[uid]
		fullName, email := ident.fullName, ident.email
		sheet := safeSheetName(fullName)
		if _, err := f.NewSheet(sheet); err != nil {
			continue
		}

		f.MergeCell(sheet, "A1", "D1")
		f.SetCellValue(sheet, "A1", "Planilla de horas - "+fullName)
		f.SetCellStyle(sheet, "A1", "D1", titleStyle)
		f.MergeCell(sheet, "A2", "D2")
		f.SetCellValue(sheet, "A2", "Email: "+email)
		f.MergeCell(sheet, "A3", "D3")
		f.SetCellValue(sheet, "A3", fmt.Sprintf("Rango: %s a %s", q.Desde, q.Hasta))

		f.SetColWidth(sheet, "A", "A", 12)
		f.SetColWidth(sheet, "B", "B", 28)
		f.SetColWidth(sheet, "C", "C", 48)
		f.SetColWidth(sheet, "D", "D", 10)

		f.SetSheetRow(sheet, "A5", &[]interface{}{"Fecha", "Proyecto", "Descripción / Tarea", "Horas"})
		f.SetCellStyle(sheet, "A5", "D5", headerStyle)

		rowIdx := 6
		var totalMinutes int
		for _, r := range userRows {
			descripcion := ""
			if r.Descripcion != nil {
				descripcion = *r.Descripcion
			}
			f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &[]interface{}{
				r.Fecha, r.ProyectoNombre, descripcion, float64(r.Minutos) / 60,
			})
			totalMinutes += r.Minutos
			if _, seen := totalsByProject[r.ProyectoNombre]; !seen {
				projectOrder = append(projectOrder, r.ProyectoNombre)
			}
			totalsByProject[r.ProyectoNombre] += float64(r.Minutos) / 60
			rowIdx++
		}

		if len(userRows) == 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), fmt.Sprintf("No hay cargas entre %s y %s", q.Desde, q.Hasta))
			rowIdx++
		}

		f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &[]interface{}{
			"Total", "", "", float64(totalMinutes) / 60,
		})
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowIdx), fmt.Sprintf("D%d", rowIdx), totalStyle)

		totalsByUser[fullName] = float64(totalMinutes) / 60
	}

	row := 4
	f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]interface{}{"Usuario", "Horas"})
	f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	row++
	for _, uid := range userOrder {
		fullName := identities[uid].fullName
		f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]interface{}{fullName, totalsByUser[fullName]})
		row++
	}

	row++
	f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]interface{}{"Proyecto", "Horas"})
	f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	row++
	for _, nombre := range projectOrder {
		f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]interface{}{nombre, totalsByProject[nombre]})
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ExportFile{
		Filename: fmt.Sprintf("horas-%s-%s.xlsx", q.Desde, q.Hasta),
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:  buf.Bytes(),
	}, nil
}

type exportIdentity struct {
	fullName string
	email    string
}

func newExportIdentity(firstName, lastName, email string) exportIdentity {
	fullName := strings.TrimSpace(firstName + " " + lastName)
	if fullName == "" {
		fullName = email
	}
	return exportIdentity{fullName: fullName, email: email}
}

var sheetNameReplacer = strings.NewReplacer(
	"\\", " ", "/", " ", "*", " ", "?", " ", ":", " ", "[", " ", "]", " ",
)

func safeSheetName(name string) string {
	clean := sheetNameReplacer.Replace(name)
	if len(clean) > 31 {
		clean = clean[:31]
	}
	if strings.TrimSpace(clean) == "" {
		return "Usuario"
	}
	return clean
}
