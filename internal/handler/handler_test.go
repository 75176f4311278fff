package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/model"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

func newRouter(t *testing.T, c model.Classifier, db HealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := assessment.NewFromClassifier(c, nil, quiet)
	router, err := NewRouter(New(svc, charts.NewSVGRenderer(), quiet), db)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return router
}

const scenarioJSON = `{
	"age": 50, "sex": "Male (1)", "cp": "0", "trestbps": 120, "chol": 200,
	"fbs": "0", "restecg": "0", "thalch": 150, "exang": "0", "oldpeak": 1.0,
	"slope": "0", "ca": "0", "thal": "1"
}`

func scenarioForm() url.Values {
	return url.Values{
		"age": {"50"}, "sex": {"1"}, "cp": {"0"}, "trestbps": {"120"}, "chol": {"200"},
		"fbs": {"0"}, "restecg": {"0"}, "thalch": {"150"}, "exang": {"0"}, "oldpeak": {"1.0"},
		"slope": {"0"}, "ca": {"0"}, "thal": {"1"},
	}
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthz(t *testing.T) {
	router := newRouter(t, model.Stub{}, fakeDB{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterReadyz(t *testing.T) {
	tests := []struct {
		name   string
		db     HealthChecker
		status int
		want   string
	}{
		{"no database", nil, http.StatusOK, `"db":"disabled"`},
		{"healthy database", fakeDB{}, http.StatusOK, `"db":"ok"`},
		{"broken database", fakeDB{err: errors.New("refused")}, http.StatusServiceUnavailable, "unhealthy: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, model.Stub{}, tt.db)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Fatalf("expected %s in %s", tt.want, w.Body.String())
			}
		})
	}
}

func TestCreateAssessment_Scenarios(t *testing.T) {
	tests := []struct {
		proba   float64
		band    string
		level   string
		percent string
		slices  [2]float64
		chol    [2]float64
	}{
		{0.42, "MODERATE", "MODERATE RISK", "42.00%", [2]float64{58, 42}, [2]float64{200, 200}},
		{0.20, "LOW", "LOW RISK", "20.00%", [2]float64{80, 20}, [2]float64{200, 200}},
		{0.90, "SEVERE", "SEVERE RISK", "90.00%", [2]float64{10, 90}, [2]float64{200, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			router := newRouter(t, model.Stub{Probability: tt.proba}, nil)
			w := postJSON(router, "/api/v1/assessments", scenarioJSON)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp struct {
				Features   []float64 `json:"features"`
				Level      string    `json:"level"`
				Percent    string    `json:"percent"`
				Assessment struct {
					Band string `json:"band"`
				} `json:"assessment"`
				Charts charts.Set `json:"charts"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			want := []float64{50, 1, 0, 120, 200, 0, 0, 150, 0, 1.0, 0, 0, 1}
			if len(resp.Features) != len(want) {
				t.Fatalf("expected %d features, got %v", len(want), resp.Features)
			}
			for i := range want {
				if resp.Features[i] != want[i] {
					t.Fatalf("feature %d: expected %v, got %v", i, want[i], resp.Features[i])
				}
			}
			if resp.Assessment.Band != tt.band || resp.Level != tt.level || resp.Percent != tt.percent {
				t.Fatalf("unexpected verdict: %+v", resp)
			}
			s := resp.Charts.Distribution.Slices
			if math.Abs(s[0].Value-tt.slices[0]) > 1e-9 || math.Abs(s[1].Value-tt.slices[1]) > 1e-9 {
				t.Fatalf("unexpected distribution: %+v", s)
			}
			b := resp.Charts.Cholesterol.Bars
			if b[0].Value != tt.chol[0] || b[1].Value != tt.chol[1] {
				t.Fatalf("unexpected cholesterol bars: %+v", b)
			}
		})
	}
}

func TestCreateAssessment_Validation(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.5}, nil)
	body := strings.Replace(scenarioJSON, `"trestbps": 120`, `"trestbps": 250`, 1)

	w := postJSON(router, "/api/v1/assessments", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for validation failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") || !strings.Contains(w.Body.String(), "trestbps") {
		t.Fatalf("expected validation error response, got %s", w.Body.String())
	}
}

func TestCreateAssessment_MalformedSelection(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.5}, nil)
	body := strings.Replace(scenarioJSON, `"thal": "1"`, `"thal": "Normal"`, 1)

	w := postJSON(router, "/api/v1/assessments", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "malformed_selection") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateAssessment_MissingField(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.5}, nil)
	w := postJSON(router, "/api/v1/assessments", `{"age": 50}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateAssessment_InferenceFailure(t *testing.T) {
	router := newRouter(t, model.Stub{Err: errors.New("model crashed")}, nil)
	w := postJSON(router, "/api/v1/assessments", scenarioJSON)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "prediction_unavailable") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterReadyz_NoModel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := assessment.NewFromClassifier(nil, nil, quiet)
	router, err := NewRouter(New(svc, charts.NewSVGRenderer(), quiet), nil)
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	if w := postJSON(router, "/api/v1/assessments", scenarioJSON); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 without a model, got %d", w.Code)
	}
}

func TestRouterReadyz_RemoteModelDown(t *testing.T) {
	scoring := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	classifier, err := model.Load(model.Options{Backend: model.BackendRemote, URL: scoring.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("load remote model: %v", err)
	}
	router := newRouter(t, classifier, nil)

	readyz := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
		router.ServeHTTP(w, req)
		return w
	}

	if w := readyz(); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"model":"ok"`) {
		t.Fatalf("expected ready model, got %d: %s", w.Code, w.Body.String())
	}

	scoring.Close()
	w := readyz()
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 once the scoring server is gone, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unavailable") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFormPage(t *testing.T) {
	router := newRouter(t, model.Stub{}, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Predict Risk") || strings.Contains(body, "Predicted Risk Level") {
		t.Fatalf("unexpected form page: %s", body)
	}
}

func TestPredictPage(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.42}, nil)
	w := postForm(router, scenarioForm())

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		"Predicted Risk Level: MODERATE RISK",
		"Risk Probability: 42.00%",
		"Overall Risk Meter",
		"<svg",
		"Male (1)",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestPredictPage_InferenceFailureInline(t *testing.T) {
	router := newRouter(t, model.Stub{Err: errors.New("boom")}, nil)
	w := postForm(router, scenarioForm())

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Prediction unavailable") {
		t.Fatalf("expected inline error, got %s", w.Body.String())
	}
}

func TestPredictPage_MalformedSelection(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.42}, nil)
	values := scenarioForm()
	values.Set("cp", "7")
	w := postForm(router, values)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "malformed selection for cp") {
		t.Fatalf("expected inline error, got %s", w.Body.String())
	}
}

func TestPredictPage_ErrorKeepsSubmittedValues(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.42}, nil)
	values := scenarioForm()
	values.Set("age", "61")
	values.Set("sex", "0")
	values.Set("trestbps", "145")
	values.Set("cp", "7")
	w := postForm(router, values)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`id="age-value">61<`,
		`id="trestbps-value">145<`,
		`<option value="0" selected>Female (0)</option>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in re-rendered form", want)
		}
	}
}

func TestPredictPage_MissingFieldKeepsSubmittedValues(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.42}, nil)
	values := scenarioForm()
	values.Set("age", "72")
	values.Del("thal")
	w := postForm(router, values)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="age-value">72<`) {
		t.Fatalf("expected submitted age in re-rendered form")
	}
}

func TestSchema(t *testing.T) {
	router := newRouter(t, model.Stub{}, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/schema", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		FeatureOrder []string          `json:"featureOrder"`
		Controls     []json.RawMessage `json:"controls"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.FeatureOrder) != 13 || resp.FeatureOrder[7] != "thalch" {
		t.Fatalf("unexpected feature order: %v", resp.FeatureOrder)
	}
	if len(resp.Controls) != 13 {
		t.Fatalf("expected 13 controls, got %d", len(resp.Controls))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(t, model.Stub{Probability: 0.9}, nil)
	postJSON(router, "/api/v1/assessments", scenarioJSON)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `heartrisk_assessments_total{band="SEVERE"} 1`) {
		t.Fatalf("missing counter: %s", w.Body.String())
	}
}

func TestStaticStylesheet(t *testing.T) {
	router := newRouter(t, model.Stub{}, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/static/styles.css", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

// Ensure LimitBodySize allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LimitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader("12345"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader("01234567890"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}
