package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
	"github.com/noah-isme/studio-booking-api/pkg/export"
)

type mockReportRepo struct {
	rosters []models.ClassRoster
	err     error
}

func (m *mockReportRepo) ClassRosters(ctx context.Context) ([]models.ClassRoster, error) {
	return m.rosters, m.err
}

func sampleRosters() []models.ClassRoster {
	return []models.ClassRoster{
		{
			Class:     models.Class{ID: "class-1", Weekday: "monday", StartTime: "10:00:00", Title: "HATHA YOGA", Capacity: 6},
			Occupancy: 2,
			Students: []models.RosterEntry{
				{StudentID: "stu-2", FirstName: "Daiana", LastName: "Martinez", NationalID: "55412533", Email: "daiana@example.com"},
				{StudentID: "stu-1", FirstName: "Leandro", LastName: "Perez", NationalID: "11678443", Email: "leandro@example.com"},
			},
		},
		{
			Class:    models.Class{ID: "class-2", Weekday: "monday", StartTime: "18:00:00", Title: "ACROYOGA", Capacity: 6},
			Students: []models.RosterEntry{},
		},
	}
}

func newReportService(repo reportRepository) *ReportService {
	return NewReportService(repo, export.NewCSVExporter(), export.NewPDFExporter(), zap.NewNop())
}

func TestReportServiceClassRostersNeverNil(t *testing.T) {
	svc := newReportService(&mockReportRepo{})

	rosters, err := svc.ClassRosters(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rosters)
	assert.Empty(t, rosters)
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := newReportService(&mockReportRepo{rosters: sampleRosters()})

	result, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "class-rosters.csv", result.FileName)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	assert.True(t, strings.HasPrefix(body, "Class,Weekday,Start,Occupancy,Capacity,Student,National ID,Email"))
	assert.Contains(t, body, "Martinez, Daiana")
	assert.Contains(t, body, "Perez, Leandro")
	// Empty classes still get a placeholder row.
	assert.Contains(t, body, "ACROYOGA")
}

func TestReportServiceExportDefaultsToCSV(t *testing.T) {
	svc := newReportService(&mockReportRepo{rosters: sampleRosters()})

	result, err := svc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestReportServiceExportPDF(t *testing.T) {
	svc := newReportService(&mockReportRepo{rosters: sampleRosters()})

	result, err := svc.Export(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "class-rosters.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestReportServiceExportUnsupportedFormat(t *testing.T) {
	svc := newReportService(&mockReportRepo{rosters: sampleRosters()})

	_, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportPropagatesRepoError(t *testing.T) {
	svc := newReportService(&mockReportRepo{err: errors.New("down")})

	_, err := svc.Export(context.Background(), "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
