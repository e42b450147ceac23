package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
	"github.com/noah-isme/studio-booking-api/pkg/export"
)

type reportRepository interface {
	ClassRosters(ctx context.Context) ([]models.ClassRoster, error)
}

// ExportResult carries a rendered report file.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService builds the per-class roster report and its file exports.
type ReportService struct {
	repo   reportRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(repo reportRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, csv: csv, pdf: pdf, logger: logger}
}

// ClassRosters returns every class with its ordered roster.
func (s *ReportService) ClassRosters(ctx context.Context) ([]models.ClassRoster, error) {
	rosters, err := s.repo.ClassRosters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build roster report")
	}
	if rosters == nil {
		rosters = []models.ClassRoster{}
	}
	return rosters, nil
}

// Export renders the roster report as CSV or PDF.
func (s *ReportService) Export(ctx context.Context, format string) (*ExportResult, error) {
	rosters, err := s.ClassRosters(ctx)
	if err != nil {
		return nil, err
	}

	dataset := rosterDataset(rosters)

	switch strings.ToLower(format) {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{FileName: "class-rosters.csv", ContentType: "text/csv", Content: content}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "Class rosters")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{FileName: "class-rosters.pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func rosterDataset(rosters []models.ClassRoster) export.Dataset {
	headers := []string{"Class", "Weekday", "Start", "Occupancy", "Capacity", "Student", "National ID", "Email"}
	rows := make([]map[string]string, 0, len(rosters))
	for _, roster := range rosters {
		base := map[string]string{
			"Class":     roster.Title,
			"Weekday":   roster.Weekday,
			"Start":     roster.StartTime,
			"Occupancy": strconv.Itoa(roster.Occupancy),
			"Capacity":  strconv.Itoa(roster.Capacity),
		}
		if len(roster.Students) == 0 {
			row := cloneRow(base)
			row["Student"] = "-"
			rows = append(rows, row)
			continue
		}
		for _, student := range roster.Students {
			row := cloneRow(base)
			row["Student"] = student.LastName + ", " + student.FirstName
			row["National ID"] = student.NationalID
			row["Email"] = student.Email
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func cloneRow(base map[string]string) map[string]string {
	row := make(map[string]string, len(base)+3)
	for k, v := range base {
		row[k] = v
	}
	return row
}
