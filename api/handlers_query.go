package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/paw-chain/swapbook/x/atomicswap/types"
)

// bodyParam carries a complete JSON query body on GET requests.
const bodyParam = "body"

// numericParams are converted to JSON numbers when built from query params.
var numericParams = map[string]bool{
	"limit":        true,
	"start_after":  true,
	"start_before": true,
}

// handleQuery runs one query kind. The body comes from the POST payload, the
// body query param, or the remaining query params as a flat object.
func (s *Server) handleQuery(c *gin.Context) {
	kind := c.Param("kind")

	body, err := requestBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid query body",
			Code:    CodeInvalidBody,
			Details: err.Error(),
		})
		return
	}

	out, err := s.snap.Query(kind, body)
	if err != nil {
		status, code := queryErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("query failed", "kind", kind, "err", err)
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// handleKinds lists the supported query kinds
func (s *Server) handleKinds(c *gin.Context) {
	c.JSON(http.StatusOK, KindsResponse{Kinds: s.snap.Kinds()})
}

// handleStatus reports where the state came from and its counters
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Snapshot:  s.source,
		LoadedAt:  s.loadedAt,
		Counters:  s.snap.Stats(),
		QueryKind: len(s.snap.Kinds()),
	})
}

func requestBody(c *gin.Context) (json.RawMessage, error) {
	if c.Request.Method == http.MethodPost {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		if !json.Valid(raw) {
			return nil, errors.New("request body is not valid JSON")
		}
		return raw, nil
	}

	if raw := c.Query(bodyParam); raw != "" {
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("%s param is not valid JSON", bodyParam)
		}
		return json.RawMessage(raw), nil
	}

	params := c.Request.URL.Query()
	if len(params) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(params))
	for key := range params {
		value := params.Get(key)
		if !numericParams[key] {
			fields[key] = value
			continue
		}
		n, err := cast.ToUint64E(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be a non-negative integer: %w", key, err)
		}
		fields[key] = n
	}
	return json.Marshal(fields)
}

func queryErrorStatus(err error) (int, string) {
	switch {
	case errorsmod.IsOf(err, types.ErrOrderNotFound, types.ErrBidDoesntExist, types.ErrChannelNotFound):
		return http.StatusNotFound, CodeNotFound
	case errorsmod.IsOf(err, types.ErrInvalidQuery):
		return http.StatusBadRequest, CodeInvalidQuery
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
