package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportForm renders a form's responses as an XLSX workbook with a
// Summary sheet (per-question aggregates) and a Responses sheet (one
// row per submission). Owner-only.
func (s *exportService) ExportForm(ctx context.Context, formID string, callerID uuid.UUID) (*ExportResult, error) {
	id, err := parseFormID(formID)
	if err != nil {
		return nil, err
	}

	form, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.AdminID != callerID {
		return nil, NewPermissionError("form", "export")
	}

	responses, err := s.repo.Response().GetByForm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}

	analytics := BuildFormAnalytics(form, responses)

	file := excelize.NewFile()
	defer file.Close()

	if err := writeSummarySheet(file, form, analytics); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeResponsesSheet(file, form, responses); err != nil {
		return nil, fmt.Errorf("failed to write responses sheet: %w", err)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("form exported", "form_id", id, "responses", len(responses))

	return &ExportResult{
		Filename:    fmt.Sprintf("feedback-%s-%s.xlsx", form.ID, time.Now().Format("2006-01-02")),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func writeSummarySheet(file *excelize.File, form *models.FeedbackForm, analytics *FormAnalytics) error {
	const sheet = "Summary"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Form", form.Title},
		{"Description", form.Description},
		{"Total responses", analytics.FormDetails.TotalResponses},
		{},
		{"Question", "Option", "Count", "Percentage", "Response rate"},
	}

	for _, qa := range analytics.Analytics {
		for i, oc := range qa.Options {
			row := []interface{}{"", oc.Option, oc.Count, fmt.Sprintf("%d%%", oc.Percentage), ""}
			if i == 0 {
				row[0] = qa.QuestionText
				row[4] = fmt.Sprintf("%d%%", qa.ResponseRate)
			}
			rows = append(rows, row)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func writeResponsesSheet(file *excelize.File, form *models.FeedbackForm, responses []*models.FeedbackResponse) error {
	const sheet = "Responses"
	if _, err := file.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Submitted by", "Submitted at"}
	for _, q := range form.Questions {
		header = append(header, q.QuestionText)
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range responses {
		row := []interface{}{r.SubmittedBy, r.SubmittedAt.Format(time.RFC3339)}
		for _, q := range form.Questions {
			answer, _ := r.AnswerFor(q.QuestionText)
			row = append(row, answer)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
