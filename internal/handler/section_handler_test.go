package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
)

type fakeSectionSrv struct {
	importResult   *dto.ImportSectionsResult
	importErr      error
	lastScenarioID string
	lastPayload    []byte
}

func (f *fakeSectionSrv) List(context.Context, string, models.SectionFilter) ([]models.Section, *models.Pagination, error) {
	return nil, nil, nil
}

func (f *fakeSectionSrv) Get(context.Context, string) (*models.Section, error) {
	return nil, nil
}

func (f *fakeSectionSrv) Create(context.Context, string, dto.CreateSectionRequest) (*models.Section, error) {
	return nil, nil
}

func (f *fakeSectionSrv) Update(context.Context, string, dto.UpdateSectionRequest) (*models.Section, error) {
	return nil, nil
}

func (f *fakeSectionSrv) Delete(context.Context, string) error {
	return nil
}

func (f *fakeSectionSrv) ImportCSV(_ context.Context, scenarioID string, payload []byte) (*dto.ImportSectionsResult, error) {
	f.lastScenarioID = scenarioID
	f.lastPayload = payload
	return f.importResult, f.importErr
}

func TestSectionHandlerImportRawBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeSectionSrv{importResult: &dto.ImportSectionsResult{Created: 2, Skipped: 0}}
	handler := NewSectionHandler(service)

	csv := "course_code,title,label,kind,instructor,day,start_time,end_time,room\nCS 301,Algorithms,A,LEC,Dr. Chen,TUE,13:00,14:30,\n"
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/sections/import", strings.NewReader(csv))
	c.Request.Header.Set("Content-Type", "text/csv")
	c.Params = gin.Params{{Key: "id", Value: "scn-1"}}

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scn-1", service.lastScenarioID)
	assert.Equal(t, []byte(csv), service.lastPayload)
}

func TestSectionHandlerImportMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeSectionSrv{importResult: &dto.ImportSectionsResult{Created: 1}}
	handler := NewSectionHandler(service)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "sections.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("course_code,title,label,kind,instructor,day,start_time,end_time,room\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/sections/import", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "scn-1"}}

	handler.Import(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(service.lastPayload), "course_code")
}

func TestSectionHandlerImportMultipartMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSectionHandler(&fakeSectionSrv{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/scenarios/scn-1/sections/import", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "scn-1"}}

	handler.Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
