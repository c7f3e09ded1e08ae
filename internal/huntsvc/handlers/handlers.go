package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/go-chi/jwtauth"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Sessions *service.SessionService
	Hunts    *service.HuntService
	Bonuses  *service.BonusService
	Slots    *service.SlotService
	Meta     *service.MetaService
}

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	validate  *validator.Validate
	svc       Services
	baseURL   string
	port      string
}

func NewHandler(svc Services, baseURL, port string) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		validate: v,
		svc:      svc,
		baseURL:  strings.TrimRight(baseURL, "/"),
		port:     port,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("failed to encode response: %s", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: http.StatusOK, Data: data})
}

func (h *Handler) created(w http.ResponseWriter, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: http.StatusCreated, Data: data})
}

// writeError maps service errors onto status codes. Storage failures are
// logged and hidden behind a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.IsValidation(err):
		h.CreateResponse(w, Response{Message: "validation failed", Code: http.StatusBadRequest, Error: err.Error()})
	case service.IsAuthError(err):
		h.CreateResponse(w, Response{Message: "unauthorized", Code: http.StatusUnauthorized, Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		h.CreateResponse(w, Response{Message: "not found", Code: http.StatusNotFound, Error: "resource not found"})
	case errors.Is(err, service.ErrConflict):
		h.CreateResponse(w, Response{Message: "conflict", Code: http.StatusConflict, Error: "resource already exists"})
	default:
		log.Errorf("%s %s failed: %s", r.Method, r.URL.Path, err)
		h.CreateResponse(w, Response{Message: "internal error", Code: http.StatusInternalServerError, Error: "internal error"})
	}
}

// decode reads a JSON body into dst and runs its validate tags.
func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return &service.ValidationError{Msg: "request body is required"}
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Msg: "malformed JSON body: " + err.Error()}
	}
	return h.check(dst)
}

func (h *Handler) check(dst interface{}) error {
	err := h.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &service.ValidationError{Field: fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:], Msg: "failed on " + fe.Tag() + ruleParam(fe)}
	}
	return &service.ValidationError{Msg: err.Error()}
}

func ruleParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return ""
	}
	return " " + fe.Param()
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "hunt service is running at port "+h.port, nil)
}
