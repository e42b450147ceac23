package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/service"
)

type stubStudentRepo struct {
	students   []models.Student
	total      int
	student    *models.Student
	findErr    error
	updated    *models.Student
	updateErr  error
	deleteRows int64
	deleteErr  error
}

func (s *stubStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return s.students, s.total, nil
}

func (s *stubStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return s.student, s.findErr
}

func (s *stubStudentRepo) Update(ctx context.Context, id string, input models.UpdateStudentInput) (*models.Student, error) {
	return s.updated, s.updateErr
}

func (s *stubStudentRepo) Delete(ctx context.Context, id string) (int64, error) {
	return s.deleteRows, s.deleteErr
}

type stubClassReader struct {
	classes []models.Class
	err     error
}

func (s *stubClassReader) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	return s.classes, s.err
}

func newStudentRouter(repo *stubStudentRepo, classes *stubClassReader) *gin.Engine {
	if classes == nil {
		classes = &stubClassReader{}
	}
	svc := service.NewStudentService(repo, classes, nil, validator.New(), zap.NewNop())
	h := NewStudentHandler(svc)
	router := gin.New()
	router.GET("/students", h.List)
	router.GET("/students/:id", h.Get)
	router.GET("/students/:id/classes", h.Classes)
	router.PUT("/students/:id", h.Update)
	router.DELETE("/students/:id", h.Delete)
	return router
}

func postPut(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStudentHandlerListIncludesPagination(t *testing.T) {
	repo := &stubStudentRepo{
		students: []models.Student{{ID: "stu-1", FirstName: "Leandro", LastName: "Perez"}},
		total:    1,
	}
	router := newStudentRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/students?search=perez", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data       []models.Student   `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	repo := &stubStudentRepo{findErr: sql.ErrNoRows}
	router := newStudentRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/students/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentHandlerClassesForEnrolledStudent(t *testing.T) {
	repo := &stubStudentRepo{student: &models.Student{ID: "stu-1"}}
	classes := &stubClassReader{classes: []models.Class{{ID: "class-1", Title: "PILATES"}}}
	router := newStudentRouter(repo, classes)

	req := httptest.NewRequest(http.MethodGet, "/students/stu-1/classes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Class `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "PILATES", envelope.Data[0].Title)
}

func TestStudentHandlerUpdateValidationFailure(t *testing.T) {
	router := newStudentRouter(&stubStudentRepo{}, nil)

	rec := postPut(t, router, "/students/stu-1", map[string]interface{}{
		"first_name": "Leandro",
		"email":      "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentHandlerDeleteNoContent(t *testing.T) {
	repo := &stubStudentRepo{deleteRows: 1}
	router := newStudentRouter(repo, nil)

	req := httptest.NewRequest(http.MethodDelete, "/students/stu-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestStudentHandlerDeleteMissing(t *testing.T) {
	repo := &stubStudentRepo{deleteRows: 0}
	router := newStudentRouter(repo, nil)

	req := httptest.NewRequest(http.MethodDelete, "/students/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
