package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ganttd/ganttd/internal/colors"
	"github.com/ganttd/ganttd/internal/gantt"
	"github.com/ganttd/ganttd/internal/tabular"
)

// transformRequest is the POST /api/v1/transform body.
type transformRequest struct {
	Dataset []map[string]any    `json:"dataset"`
	Columns gantt.ColumnMapping `json:"columns"`
	Options gantt.Options       `json:"options"`
}

func (s *Server) handleTransform(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithRequestError(c, gantt.NewRequestError(gantt.ErrInvalidConfiguration,
			"could not read request body", nil))
		return
	}

	if reqErr := validateTransformBody(body); reqErr != nil {
		abortWithRequestError(c, reqErr)
		return
	}

	// Decode with UseNumber so numeric cells keep their textual form for
	// id and date normalization.
	var req transformRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		abortWithRequestError(c, gantt.NewRequestError(gantt.ErrInvalidConfiguration,
			"request body is not valid JSON", nil))
		return
	}

	var ds *tabular.Dataset
	if req.Dataset != nil {
		ds = tabular.FromMaps(req.Dataset)
	}

	result, err := s.transformer.Transform(ds, req.Columns, req.Options)
	if err != nil {
		var reqErr *gantt.RequestError
		if errors.As(err, &reqErr) {
			abortWithRequestError(c, reqErr)
			return
		}
		abortWithRequestError(c, gantt.NewRequestError(gantt.ErrInternal,
			"internal error during transformation", nil))
		return
	}
	if reqErr := result.RequestError(); reqErr != nil {
		abortWithRequestError(c, reqErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePalette(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"palette":      colors.Palette,
		"defaultClass": colors.DefaultClass,
	})
}

// validateTransformBody checks the raw body against the embedded schema.
func validateTransformBody(body []byte) *gantt.RequestError {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return gantt.NewRequestError(gantt.ErrInvalidConfiguration,
			"request body is not valid JSON", nil)
	}
	if err := transformSchema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			cause := firstSchemaCause(ve)
			return gantt.NewRequestError(gantt.ErrInvalidConfiguration,
				"request does not match the expected shape",
				map[string]any{
					"location": cause.InstanceLocation,
					"message":  cause.Message,
				})
		}
		return gantt.NewRequestError(gantt.ErrInvalidConfiguration, err.Error(), nil)
	}
	return nil
}

// abortWithRequestError writes the error envelope with the status mapped
// from the error code.
func abortWithRequestError(c *gin.Context, reqErr *gantt.RequestError) {
	c.AbortWithStatusJSON(statusForCode(reqErr.Code), gin.H{"error": reqErr})
}

func statusForCode(code gantt.ErrorCode) int {
	switch code {
	case gantt.ErrDatasetNotSpecified, gantt.ErrInvalidConfiguration, gantt.ErrColumnNotFound:
		return http.StatusBadRequest
	case gantt.ErrEmptyDataset, gantt.ErrNoValidTasks:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
