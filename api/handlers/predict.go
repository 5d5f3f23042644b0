package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/metrics"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
	"github.com/OldStager01/grid-fault-predictor/pkg/validation"
)

// Predictor classifies a single reading.
type Predictor interface {
	Predict(ctx context.Context, reading models.SensorReading) *models.ClassificationResult
}

type PredictHandler struct {
	predictor Predictor
	cfg       config.ValidationConfig
	metrics   *metrics.Metrics
}

func NewPredictHandler(predictor Predictor, cfg config.ValidationConfig) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		cfg:       cfg,
		metrics:   metrics.Get(),
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error" example:"invalid input: missing field"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Predict godoc
// @Summary Classify a sensor reading
// @Description Predicts the fault category for one grid sensor reading and returns the matching advisory. Numbers are rounded to 4 decimals.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param reading body models.SensorReading true "Sensor reading"
// @Success 200 {object} models.ClassificationResult "Prediction"
// @Failure 400 {object} ErrorResponse "Malformed body, missing or non-numeric field"
// @Failure 413 {object} ErrorResponse "Request body too large"
// @Failure 422 {object} ErrorResponse "Value outside the accepted range"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Router /api/predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.reject(c, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		h.reject(c, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	raw, err := decodeObject(body)
	if err != nil {
		h.reject(c, http.StatusBadRequest, "invalid JSON: "+err.Error(), nil)
		return
	}

	reading, err := validation.DecodeReading(raw, h.cfg.Lenient)
	if err != nil {
		h.rejectValidation(c, http.StatusBadRequest, err)
		return
	}

	if h.cfg.EnforceRanges {
		if err := validation.ValidateRanges(reading); err != nil {
			h.rejectValidation(c, http.StatusUnprocessableEntity, err)
			return
		}
	}

	result := h.predictor.Predict(c.Request.Context(), reading)
	c.JSON(http.StatusOK, result.Rounded())
}

func decodeObject(body []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("expected a JSON object")
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	return raw, nil
}

func (h *PredictHandler) rejectValidation(c *gin.Context, status int, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			h.metrics.IncValidationError(fe.Field)
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Fields: fieldErrs.Fields()})
		logger.WarnCtxf(c.Request.Context(), "Rejected reading: %v", err)
		return
	}
	h.reject(c, status, err.Error(), nil)
}

func (h *PredictHandler) reject(c *gin.Context, status int, msg string, fields map[string]string) {
	h.metrics.IncValidationError("")
	logger.WarnCtxf(c.Request.Context(), "Rejected request: %s", msg)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Fields: fields})
}
