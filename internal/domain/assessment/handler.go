package assessment

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/export"
	"github.com/tcm/intake/internal/platform/fhir"
	"github.com/tcm/intake/internal/platform/session"
)

// validationGroupSystem identifies validation group codes in outcome details.
const validationGroupSystem = "urn:tcm-intake:validation-group"

type Handler struct {
	svc    *Service
	signer *session.Signer
	logger zerolog.Logger
}

func NewHandler(svc *Service, signer *session.Signer, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, signer: signer, logger: logger}
}

// RouteMiddleware is applied per route. Public runs on the anonymous
// routes; Session runs, in order, on routes that act on the caller's
// session and must include the session token check.
type RouteMiddleware struct {
	Public  []echo.MiddlewareFunc
	Session []echo.MiddlewareFunc
}

// RegisterRoutes mounts the public catalog and session-creation routes and
// the routes that act on the caller's session.
func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group, mw RouteMiddleware) {
	api.GET("/catalog", h.GetCatalog, mw.Public...)
	api.POST("/sessions", h.CreateSession, mw.Public...)

	own := api.Group("/session", mw.Session...)
	own.DELETE("", h.DeleteSession)
	own.POST("/submission", h.Submit)
	own.GET("/record", h.GetRecord)
	own.GET("/rows", h.GetRows)
	own.GET("/summary", h.GetSummary)
	own.GET("/export.csv", h.ExportCSV)
	own.GET("/export.xlsx", h.ExportXLSX)

	fhirGroup.GET("/Questionnaire/"+catalog.QuestionnaireID, h.GetQuestionnaireFHIR, mw.Public...)
	fhirGroup.GET("/QuestionnaireResponse/current", h.GetQuestionnaireResponseFHIR, mw.Session...)
}

func (h *Handler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Catalog())
}

type createSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) CreateSession(c echo.Context) error {
	sess, err := h.svc.StartSession(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	token, err := h.signer.Issue(sess.ID, sess.ExpiresAt)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, createSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.svc.EndSession(c.Request().Context(), sessionID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Submit(c echo.Context) error {
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	answers, err := DecodeAnswers(h.svc.Catalog(), sub.Answers)
	if err != nil {
		return h.fail(c, err)
	}
	rec, err := h.svc.Submit(c.Request().Context(), sessionID(c), answers)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetRecord(c echo.Context) error {
	_, rec, err := h.svc.Current(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetRows(c echo.Context) error {
	rows, err := h.svc.Rows(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetSummary(c echo.Context) error {
	s, err := h.svc.Summary(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	return h.download(c, export.FormatCSV)
}

func (h *Handler) ExportXLSX(c echo.Context) error {
	return h.download(c, export.FormatXLSX)
}

func (h *Handler) download(c echo.Context, f export.Format) error {
	d, err := h.svc.Export(c.Request().Context(), sessionID(c), f)
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, export.ContentDisposition(d.Filename))
	return c.Blob(http.StatusOK, d.ContentType, d.Data)
}

func (h *Handler) GetQuestionnaireFHIR(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Catalog().ToFHIRQuestionnaire())
}

func (h *Handler) GetQuestionnaireResponseFHIR(c echo.Context) error {
	qr, err := h.svc.QuestionnaireResponse(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, qr)
}

func sessionID(c echo.Context) string {
	if sid, ok := c.Get(string(session.SessionIDKey)).(string); ok && sid != "" {
		return sid
	}
	return session.IDFromContext(c.Request().Context())
}

// fail maps domain errors to OperationOutcome responses.
func (h *Handler) fail(c echo.Context, err error) error {
	var missing *MissingFieldsError
	switch {
	case errors.As(err, &missing):
		return c.JSON(http.StatusUnprocessableEntity, h.missingOutcome(missing))

	case errors.Is(err, ErrInvalidFieldValue):
		b := fhir.NewOutcomeBuilder()
		if field := FieldOf(err); field != "" {
			b.AddIssueWithLocation(fhir.IssueSeverityError, fhir.IssueTypeValue, err.Error(), field)
		} else {
			b.AddIssue(fhir.IssueSeverityError, fhir.IssueTypeValue, err.Error())
		}
		return c.JSON(http.StatusUnprocessableEntity, b.Build())

	case errors.Is(err, ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Session", sessionID(c)))

	case errors.Is(err, ErrNotSubmitted):
		return c.JSON(http.StatusConflict, fhir.ConflictOutcome("no self-assessment has been submitted in this session"))
	}

	ev := h.logger.Error().Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("path", c.Path())
	var ge *goerr.Error
	if errors.As(err, &ge) {
		ev = ev.Interface("values", ge.Values())
	}
	if errors.Is(err, ErrMalformedRecord) {
		ev.Msg("record does not match the field catalog")
	} else {
		ev.Msg("request failed")
	}
	return c.JSON(http.StatusInternalServerError, fhir.InternalErrorOutcome("internal server error"))
}

func (h *Handler) missingOutcome(e *MissingFieldsError) *fhir.OperationOutcome {
	cat := h.svc.Catalog()
	b := fhir.NewOutcomeBuilder()
	for _, g := range e.Groups {
		b.AddIssueWithDetails(fhir.IssueSeverityError, fhir.IssueTypeRequired, g.Message, &fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: validationGroupSystem, Code: g.ID, Display: g.Label}},
		})
	}
	for _, id := range e.Fields {
		label := id
		if f, ok := cat.Field(id); ok {
			label = f.Key()
		}
		b.AddIssueWithLocation(fhir.IssueSeverityError, fhir.IssueTypeRequired, label+" is required", id)
	}
	return b.Build()
}
