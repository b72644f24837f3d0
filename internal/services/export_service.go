package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/examhub/exam-service/internal/repositories"
)

// ExportService renders an exam's results as an xlsx workbook.
type ExportService interface {
	ExportResults(ctx context.Context, actor Actor, examID uint) ([]byte, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy policy
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var resultHeaders = []string{"Student", "Username", "Status", "Score (%)", "Passed", "Started", "Finished", "Time (min)"}

// ExportResults returns the workbook bytes and a suggested filename.
func (s *exportService) ExportResults(ctx context.Context, actor Actor, examID uint) ([]byte, string, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", fmt.Errorf("failed to load exam: %w", err)
	}
	if err := s.policy.Can(actor, ActionExportResults, exam.CreatedBy); err != nil {
		return nil, "", err
	}

	submissions, err := s.repo.Submission().GetByExam(ctx, examID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, submission := range submissions {
		finished := ""
		if submission.EndTime != nil {
			finished = submission.EndTime.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			submission.Student.FullName,
			submission.Student.Username,
			string(submission.Status),
			submission.Score,
			submission.IsPassed,
			submission.StartTime.Format("2006-01-02 15:04"),
			finished,
			submission.TimeSpentMinutes(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("exam-%d-results.xlsx", exam.ID)
	s.logger.Info("results exported", "exam_id", examID, "submissions", len(submissions), "exported_by", actor.UserID)
	return buf.Bytes(), filename, nil
}
