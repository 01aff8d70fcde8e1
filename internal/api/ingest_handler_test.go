package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"site_ingest/internal/domain"
)

type stubIngester struct {
	got    *domain.IngestPayload
	result domain.Result
}

func (s *stubIngester) Ingest(_ context.Context, p *domain.IngestPayload) domain.Result {
	s.got = p
	return s.result
}

func newTestRouter(svc Ingester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, NewIngestHandler(svc))
	return router
}

func postIngest(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sites/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func minimalBody(researcherID uuid.UUID) string {
	return `{
		"researcher_id": "` + researcherID.String() + `",
		"site": {"site_name": "Example Asylum", "official_site_url": "https://example.org"}
	}`
}

func TestIngestSiteSuccess(t *testing.T) {
	researcherID := uuid.New()
	siteID := uuid.New()
	svc := &stubIngester{result: domain.Success(siteID)}

	rec := postIngest(t, newTestRouter(svc), minimalBody(researcherID))

	require.Equal(t, http.StatusOK, rec.Code)

	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.OK)
	require.Equal(t, siteID, res.SiteID)
	require.Empty(t, res.Error)

	require.NotNil(t, svc.got)
	require.Equal(t, researcherID, svc.got.ResearcherID)
	require.Equal(t, "Example Asylum", svc.got.Site.SiteName)
}

func TestIngestSiteMalformedJSON(t *testing.T) {
	svc := &stubIngester{}

	rec := postIngest(t, newTestRouter(svc), `{"researcher_id": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, svc.got)

	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.OK)
	require.Equal(t, domain.CodeValidation, res.Code)
}

func TestIngestSiteValidationFailure(t *testing.T) {
	svc := &stubIngester{}

	// decodes fine, fails the boundary check
	rec := postIngest(t, newTestRouter(svc), `{
		"researcher_id": "`+uuid.New().String()+`",
		"site": {"site_name": "", "official_site_url": "https://example.org"}
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Nil(t, svc.got)

	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.OK)
	require.Equal(t, domain.CodeValidation, res.Code)
	require.Contains(t, res.Error, "site.site_name")
}

func TestIngestSiteEngineFailureStatus(t *testing.T) {
	tests := []struct {
		name       string
		result     domain.Result
		wantStatus int
	}{
		{
			name:       "validation failure",
			result:     domain.Failure(domain.Validationf("researcher_id: unknown researcher")),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "constraint failure",
			result:     domain.Failure(domain.ConstraintError("upsert document", assertErr{})),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store failure",
			result:     domain.Failure(domain.StoreError("begin transaction", assertErr{})),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubIngester{result: tt.result}
			rec := postIngest(t, newTestRouter(svc), minimalBody(uuid.New()))

			require.Equal(t, tt.wantStatus, rec.Code)

			var res domain.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			require.False(t, res.OK)
			require.Equal(t, tt.result.Code, res.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubIngester{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
