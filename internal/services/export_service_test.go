package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportForm(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	svc := NewExportService(repo, testLogger())
	owner := uuid.New()
	form := seedForm(t, repo, owner, nil)

	if err := repo.ResponseRepo.Create(ctx, submission(form.ID, "Ada", map[string]string{
		"Would you recommend this course?": "Yes",
		"How was the pacing?":              "Just right",
	})); err != nil {
		t.Fatalf("seed response: %v", err)
	}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		if _, err := svc.ExportForm(ctx, form.ID.String(), uuid.New()); !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("workbook has summary and responses", func(t *testing.T) {
		result, err := svc.ExportForm(ctx, form.ID.String(), owner)
		if err != nil {
			t.Fatalf("ExportForm: %v", err)
		}
		if result.ContentType != xlsxContentType {
			t.Errorf("content type = %q", result.ContentType)
		}
		if result.Filename == "" {
			t.Error("missing filename")
		}

		file, err := excelize.OpenReader(bytes.NewReader(result.Data))
		if err != nil {
			t.Fatalf("open workbook: %v", err)
		}
		defer file.Close()

		sheets := file.GetSheetList()
		if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Responses" {
			t.Fatalf("unexpected sheets %v", sheets)
		}

		title, err := file.GetCellValue("Summary", "B1")
		if err != nil || title != "Course Feedback" {
			t.Errorf("Summary B1 = %q (%v)", title, err)
		}
		total, err := file.GetCellValue("Summary", "B3")
		if err != nil || total != "1" {
			t.Errorf("Summary B3 = %q (%v)", total, err)
		}

		submitter, err := file.GetCellValue("Responses", "A2")
		if err != nil || submitter != "Ada" {
			t.Errorf("Responses A2 = %q (%v)", submitter, err)
		}
		answer, err := file.GetCellValue("Responses", "C2")
		if err != nil {
			t.Fatalf("Responses C2: %v", err)
		}
		if answer != "Yes" {
			t.Errorf("Responses C2 = %q, want Yes", answer)
		}
	})

	t.Run("unknown form", func(t *testing.T) {
		if _, err := svc.ExportForm(ctx, uuid.NewString(), owner); err != ErrFormNotFound {
			t.Errorf("expected ErrFormNotFound, got %v", err)
		}
	})
}
