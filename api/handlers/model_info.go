package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/grid-fault-predictor/internal/classifier"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type Threshold struct {
	Feature string  `json:"feature" example:"temperature"`
	Above   bool    `json:"above"`
	Value   float64 `json:"value" example:"35"`
	Factor  float64 `json:"factor" example:"1"`
}

type ModelInfoResponse struct {
	ModelType    string             `json:"model_type" example:"threshold-heuristic"`
	ClassLabels  []string           `json:"class_labels"`
	FeatureNames []string           `json:"feature_names"`
	NumClasses   int                `json:"num_classes" example:"3"`
	FeatureCount int                `json:"feature_count" example:"7"`
	Weights      map[string]float64 `json:"weights"`
	Thresholds   []Threshold        `json:"thresholds"`
}

func ModelInfo() ModelInfoResponse {
	categories := models.FaultCategories()
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = string(c)
	}

	return ModelInfoResponse{
		ModelType:    "threshold-heuristic",
		ClassLabels:  labels,
		FeatureNames: models.FeatureNames(),
		NumClasses:   len(labels),
		FeatureCount: len(models.FeatureNames()),
		Weights: map[string]float64{
			string(models.CategoryLineBreakage):       classifier.LineBreakageWeight,
			string(models.CategoryTransformerFailure): classifier.TransformerWeight,
			string(models.CategoryOverheating):        classifier.OverheatingWeight,
		},
		Thresholds: []Threshold{
			{Feature: "temperature", Above: true, Value: classifier.TempHigh, Factor: 1.0},
			{Feature: "temperature", Above: true, Value: classifier.TempElevated, Factor: 0.8},
			{Feature: "voltage", Above: false, Value: classifier.VoltageLow, Factor: 1.0},
			{Feature: "voltage", Above: false, Value: classifier.VoltageSag, Factor: 0.7},
			{Feature: "current", Above: true, Value: classifier.CurrentHigh, Factor: 1.0},
			{Feature: "current", Above: true, Value: classifier.CurrentRaised, Factor: 0.6},
			{Feature: "wind_speed", Above: true, Value: classifier.WindHigh, Factor: 0.8},
			{Feature: "wind_speed", Above: true, Value: classifier.WindRaised, Factor: 0.4},
		},
	}
}

// GetModelInfo godoc
// @Summary Describe the classifier
// @Description Class labels, expected features, weights and thresholds of the fault classifier
// @Tags Prediction
// @Produce json
// @Success 200 {object} ModelInfoResponse
// @Router /api/model-info [get]
func GetModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ModelInfo())
}
