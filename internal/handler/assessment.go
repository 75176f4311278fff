package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/model"
	"github.com/Skufu/heartrisk/internal/observability"
	"github.com/Skufu/heartrisk/internal/patient"
	"github.com/Skufu/heartrisk/internal/report"
)

const predictionUnavailable = "Prediction unavailable"

// AssessmentResponse is the JSON view of one assessment.
type AssessmentResponse struct {
	*assessment.Result
	Level   string `json:"level"`
	Color   string `json:"color"`
	Percent string `json:"percent"`
}

// Form serves the empty form with default values.
func (h *Handler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, report.PageTemplate, report.FormPage(patient.Defaults()))
}

// Predict handles the HTML form submission. Errors are shown inline on the
// same page.
func (h *Handler) Predict(c *gin.Context) {
	var form patient.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, report.PageTemplate,
			report.ErrorPage(form.Partial(), "Invalid form submission: every field is required."))
		return
	}

	in, err := form.Decode()
	if err != nil {
		h.observeDecodeFailure(err)
		c.HTML(statusFor(err), report.PageTemplate, report.ErrorPage(form.Partial(), err.Error()))
		return
	}

	res, err := h.service.Assess(c.Request.Context(), in)
	switch {
	case errors.Is(err, model.ErrInferenceFailure):
		c.HTML(http.StatusOK, report.PageTemplate, report.ErrorPage(in, predictionUnavailable))
		return
	case err != nil:
		c.HTML(statusFor(err), report.PageTemplate, report.ErrorPage(in, err.Error()))
		return
	}

	page, err := report.ResultPage(res, h.renderer)
	if err != nil {
		h.service.Metrics().ObserveFailure(observability.ReasonRender)
		h.logger.ErrorContext(c.Request.Context(), "render charts", "error", err)
		c.HTML(http.StatusInternalServerError, report.PageTemplate, report.ErrorPage(in, "Charts could not be rendered."))
		return
	}
	c.HTML(http.StatusOK, report.PageTemplate, page)
}

// CreateAssessment is the JSON counterpart of Predict.
func (h *Handler) CreateAssessment(c *gin.Context) {
	var form patient.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return
	}

	in, err := form.Decode()
	if err != nil {
		h.observeDecodeFailure(err)
		writeError(c, err)
		return
	}

	res, err := h.service.Assess(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AssessmentResponse{
		Result:  res,
		Level:   res.Assessment.Band.String(),
		Color:   res.Assessment.Band.Color(),
		Percent: res.Assessment.Percent(),
	})
}

// Schema describes the form controls and the feature order.
func (h *Handler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"featureOrder": patient.FeatureOrder,
		"controls":     patient.Schema(),
		"chartDefaults": gin.H{
			"riskMeter":    charts.RiskMeter(0),
			"stressFactor": charts.StressFactor,
		},
	})
}

// observeDecodeFailure counts failures the service never sees.
func (h *Handler) observeDecodeFailure(err error) {
	if errors.Is(err, patient.ErrMalformedSelection) {
		h.service.Metrics().ObserveFailure(observability.ReasonMalformedSelection)
		return
	}
	h.service.Metrics().ObserveFailure(observability.ReasonValidation)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, patient.ErrMalformedSelection):
		return http.StatusBadRequest
	case errors.Is(err, patient.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInferenceFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var (
		malformed  *patient.MalformedSelectionError
		validation *patient.ValidationError
	)
	switch {
	case errors.As(err, &malformed):
		c.JSON(statusFor(err), gin.H{
			"error": "malformed_selection",
			"field": malformed.Field,
			"value": malformed.Value,
		})
	case errors.As(err, &validation):
		c.JSON(statusFor(err), gin.H{
			"error":  "validation_failed",
			"fields": validation.Fields,
		})
	case errors.Is(err, model.ErrInferenceFailure):
		c.JSON(statusFor(err), gin.H{"error": "prediction_unavailable"})
	default:
		c.JSON(statusFor(err), gin.H{"error": "internal error"})
	}
}
