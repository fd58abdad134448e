package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/auction-draft/internal/platform/logging"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

type Handler struct {
	draft     *usecase.DraftService
	refresher *usecase.PoolRefresher
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler builds the HTTP handler. refresher may be nil when stats collection
// is disabled; the refresh routes then answer 503.
func NewHandler(draft *usecase.DraftService, refresher *usecase.PoolRefresher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draft:     draft,
		refresher: refresher,
		logger:    logger.Named("httpapi"),
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeAndValidate reads a JSON body into dst and runs the struct validation tags.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return h.validateRequest(r.Context(), dst)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return value, nil
}

func requiredQueryInt(r *http.Request, key string) (int, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return 0, fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, key)
	}
	return queryInt(r, key, 0)
}
