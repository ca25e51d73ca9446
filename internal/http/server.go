package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"gradecanvas/internal/ai"
	"gradecanvas/internal/auth"
	"gradecanvas/internal/canvas"
	"gradecanvas/internal/config"
	"gradecanvas/internal/credentials"
	"gradecanvas/internal/events"
	"gradecanvas/internal/grading"
	"gradecanvas/internal/model"
)

const credentialsMissingMessage = "Canvas credentials not found. Please complete onboarding."

// Store is the slice of the repository the HTTP layer consumes.
type Store interface {
	GetUserSettings(ctx context.Context, userID string) (model.UserSettings, error)
	UpsertUserSettings(ctx context.Context, settings model.UserSettings) error
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpsertProfile(ctx context.Context, profile model.Profile) error
}

type Server struct {
	cfg       config.Config
	store     Store
	resolver  *credentials.Resolver
	generator *ai.Generator
	publisher events.Publisher
	redis     *redis.Client
	cacheTTL  time.Duration
}

func NewServer(cfg config.Config, store Store, completer ai.Completer, publisher events.Publisher, redisClient *redis.Client) *Server {
	return &Server{
		cfg:   cfg,
		store: store,
		resolver: credentials.NewResolver(
			&credentials.SettingsSource{Settings: store},
			&credentials.MetadataSource{},
		),
		generator: ai.NewGenerator(completer),
		publisher: publisher,
		redis:     redisClient,
		cacheTTL:  cfg.CacheTTL,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(s.authMiddleware).Get("/courses", s.handleListCourses)
	r.With(s.authMiddleware).Get("/courses/{courseID}", s.handleGetCourse)
	r.With(s.authMiddleware).Get("/courses/{courseID}/assignments", s.handleListAssignments)
	r.With(s.authMiddleware).Get("/courses/{courseID}/assignments/{assignmentID}", s.handleGetAssignment)
	r.With(s.authMiddleware).Get("/courses/{courseID}/assignments/{assignmentID}/submissions", s.handleListSubmissions)
	r.With(s.authMiddleware).Get("/courses/{courseID}/assignments/{assignmentID}/submissions/{userID}", s.handleGetSubmission)
	r.With(s.authMiddleware).Put("/courses/{courseID}/assignments/{assignmentID}/submissions/{userID}", s.handleUpdateSubmissionGrade)
	r.With(s.authMiddleware).Post("/canvas/test-connection", s.handleTestConnection)
	r.With(s.authMiddleware).Post("/ai/grade-submission", s.handleGradeSubmission)
	r.With(s.authMiddleware).Get("/settings", s.handleGetSettings)
	r.With(s.authMiddleware).Put("/settings", s.handlePutSettings)
	r.With(s.authMiddleware).Get("/profile", s.handleGetProfile)
	r.With(s.authMiddleware).Put("/profile", s.handlePutProfile)

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if _, err := claims.UserID(); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				message := "internal server error"
				if err, ok := rec.(error); ok && err.Error() != "" {
					message = err.Error()
				}
				writeError(w, http.StatusInternalServerError, message)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// canvasClient resolves the caller's credential pair and builds a client for
// it. A nil client with ok=false means the 400 response was already written.
func (s *Server) canvasClient(w http.ResponseWriter, r *http.Request) (*canvas.Client, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return nil, false
	}
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return nil, false
	}
	pair, err := s.resolver.Resolve(r.Context(), userID, claims)
	if err != nil {
		writeError(w, http.StatusBadRequest, credentialsMissingMessage)
		return nil, false
	}
	return canvas.New(pair.BaseURL, pair.Token), true
}

// Models

type settingsResponse struct {
	UserID        string  `json:"user_id"`
	CanvasURL     *string `json:"canvas_url"`
	CanvasToken   *string `json:"canvas_token"`
	TokenLabel    *string `json:"token_label"`
	SyncEnabled   bool    `json:"sync_enabled"`
	NotifyOnGrade bool    `json:"notify_on_grade"`
}

type putSettingsRequest struct {
	CanvasURL     string  `json:"canvas_url"`
	CanvasToken   string  `json:"canvas_token"`
	TokenLabel    *string `json:"token_label"`
	SyncEnabled   bool    `json:"sync_enabled"`
	NotifyOnGrade bool    `json:"notify_on_grade"`
}

type profileResponse struct {
	UserID      string  `json:"user_id"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

type putProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

type updateGradeRequest struct {
	Submission struct {
		PostedGrade interface{} `json:"posted_grade"`
		Comment     struct {
			TextComment string `json:"text_comment"`
		} `json:"comment"`
	} `json:"submission"`
}

type testConnectionRequest struct {
	CanvasURL   string `json:"canvas_url"`
	CanvasToken string `json:"canvas_token"`
}

type gradeSubmissionRequest struct {
	AssignmentDescription string   `json:"assignmentDescription"`
	SubmissionContent     string   `json:"submissionContent"`
	PointsPossible        *float64 `json:"pointsPossible"`
	Rubric                string   `json:"rubric"`
}

// Canvas handlers

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	s.cachedJSON(w, r, func() (interface{}, int, error) {
		courses, err := client.ListCourses(r.Context(), canvas.ListCoursesOptions{
			Include:         includeParams(r),
			EnrollmentState: r.URL.Query().Get("enrollment_state"),
			State:           r.URL.Query()["state[]"],
			EnrollmentType:  r.URL.Query().Get("enrollment_type"),
		})
		if err != nil {
			return nil, 0, err
		}
		return map[string]interface{}{"courses": courses}, http.StatusOK, nil
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	course, err := client.GetCourse(r.Context(), courseID, includeParams(r))
	if err != nil {
		s.writeCanvasError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"course": course})
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	s.cachedJSON(w, r, func() (interface{}, int, error) {
		assignments, err := client.ListAssignments(r.Context(), courseID, canvas.ListAssignmentsOptions{
			Include:       includeParams(r),
			Bucket:        r.URL.Query().Get("bucket"),
			AssignmentIDs: parseIDList(r.URL.Query()["assignment_ids[]"]),
		})
		if err != nil {
			return nil, 0, err
		}
		return map[string]interface{}{"assignments": assignments}, http.StatusOK, nil
	})
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	assignmentID, err := parseID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_assignment_id")
		return
	}
	assignment, err := grading.GetAssignment(r.Context(), client, courseID, assignmentID)
	if err != nil {
		var opErr *grading.Error
		if errors.As(err, &opErr) {
			writeError(w, http.StatusNotFound, opErr.Code)
			return
		}
		s.writeCanvasError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignment": assignment})
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	assignmentID, err := parseID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_assignment_id")
		return
	}
	submissions, err := client.ListSubmissions(r.Context(), courseID, assignmentID, includeParams(r))
	if err != nil {
		s.writeCanvasError(w, err)
		return
	}
	for i := range submissions {
		canvas.EnsureUser(&submissions[i], submissions[i].UserID)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	assignmentID, err := parseID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_assignment_id")
		return
	}
	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}

	result, err := grading.FetchSubmission(r.Context(), client, courseID, assignmentID, userID, includeParams(r))
	if err != nil {
		var opErr *grading.Error
		if errors.As(err, &opErr) {
			writeError(w, http.StatusNotFound, opErr.Code)
			return
		}
		s.writeCanvasError(w, err)
		return
	}
	if result.Kind == grading.SubmissionPartial {
		// Partial success: the assignment context is still renderable even
		// though the submission itself could not be fetched.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error":      result.FetchError,
			"assignment": result.Assignment,
			"submission": result.Placeholder,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submission": result.Submission})
}

func (s *Server) handleUpdateSubmissionGrade(w http.ResponseWriter, r *http.Request) {
	client, ok := s.canvasClient(w, r)
	if !ok {
		return
	}
	courseID, err := parseID(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_course_id")
		return
	}
	assignmentID, err := parseID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_assignment_id")
		return
	}
	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}

	var req updateGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	postedGrade := gradeString(req.Submission.PostedGrade)
	if postedGrade == "" {
		writeError(w, http.StatusBadRequest, "missing_posted_grade")
		return
	}

	submission, err := grading.UpdateGrade(r.Context(), client, courseID, assignmentID, userID, canvas.GradeUpdate{
		PostedGrade: postedGrade,
		TextComment: req.Submission.Comment.TextComment,
	})
	if err != nil {
		s.writeCanvasError(w, err)
		return
	}

	s.publishGradePosted(r, courseID, assignmentID, userID, postedGrade)
	writeJSON(w, http.StatusOK, map[string]interface{}{"submission": submission})
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req testConnectionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
	}

	var client *canvas.Client
	if req.CanvasURL != "" && req.CanvasToken != "" {
		client = canvas.New(req.CanvasURL, req.CanvasToken)
	} else {
		resolved, ok := s.canvasClient(w, r)
		if !ok {
			return
		}
		client = resolved
	}

	status, err := client.TestConnection(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// AI handler

func (s *Server) handleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	var req gradeSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	suggestion, err := s.generator.Grade(r.Context(), ai.Input{
		AssignmentDescription: req.AssignmentDescription,
		SubmissionContent:     req.SubmissionContent,
		PointsPossible:        req.PointsPossible,
		Rubric:                req.Rubric,
	})
	if err != nil {
		if errors.Is(err, ai.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			// Hand the raw model output back so the malformed response can
			// be diagnosed.
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":       parseErr.Error(),
				"rawResponse": parseErr.Raw,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

// Settings handlers

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUserID(w, r)
	if userID == "" {
		return
	}
	settings, err := s.store.GetUserSettings(r.Context(), userID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "settings_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": settingsResponse{
		UserID:        settings.UserID,
		CanvasURL:     settings.CanvasURL,
		CanvasToken:   settings.CanvasToken,
		TokenLabel:    settings.TokenLabel,
		SyncEnabled:   settings.SyncEnabled,
		NotifyOnGrade: settings.NotifyOnGrade,
	}})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUserID(w, r)
	if userID == "" {
		return
	}
	var req putSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.CanvasURL) == "" || strings.TrimSpace(req.CanvasToken) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	settings := model.UserSettings{
		UserID:        userID,
		CanvasURL:     &req.CanvasURL,
		CanvasToken:   &req.CanvasToken,
		TokenLabel:    req.TokenLabel,
		SyncEnabled:   req.SyncEnabled,
		NotifyOnGrade: req.NotifyOnGrade,
	}
	if err := s.store.UpsertUserSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": settingsResponse{
		UserID:        userID,
		CanvasURL:     settings.CanvasURL,
		CanvasToken:   settings.CanvasToken,
		TokenLabel:    settings.TokenLabel,
		SyncEnabled:   settings.SyncEnabled,
		NotifyOnGrade: settings.NotifyOnGrade,
	}})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUserID(w, r)
	if userID == "" {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), userID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "profile_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profileResponse{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
	}})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID := s.requireUserID(w, r)
	if userID == "" {
		return
	}
	var req putProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	profile := model.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.store.UpsertProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profileResponse{
		UserID:      userID,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
	}})
}

// Events

func (s *Server) publishGradePosted(r *http.Request, courseID, assignmentID, studentID int64, postedGrade string) {
	if s.publisher == nil {
		return
	}
	claims := claimsFromContext(r.Context())
	if claims == nil {
		return
	}
	teacherID, err := claims.UserID()
	if err != nil {
		return
	}
	settings, err := s.store.GetUserSettings(r.Context(), teacherID)
	if err != nil || !settings.NotifyOnGrade {
		return
	}
	event := events.GradePosted{
		ID:           uuid.New().String(),
		TeacherID:    teacherID,
		CourseID:     courseID,
		AssignmentID: assignmentID,
		StudentID:    studentID,
		PostedGrade:  postedGrade,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishGradePosted(r.Context(), event); err != nil {
		log.Printf("events: grade posted publish failed: %v", err)
	}
}

// Cache

// cachedJSON serves the fetch result through the redis response cache when a
// client is configured. Cache failures fall through to a live fetch.
func (s *Server) cachedJSON(w http.ResponseWriter, r *http.Request, fetch func() (interface{}, int, error)) {
	key := s.cacheKey(r)
	if s.redis != nil && key != "" {
		if cached, err := s.redis.Get(r.Context(), key).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
	}

	payload, status, err := fetch()
	if err != nil {
		s.writeCanvasError(w, err)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if s.redis != nil && key != "" && status == http.StatusOK && s.cacheTTL > 0 {
		if err := s.redis.Set(r.Context(), key, body, s.cacheTTL).Err(); err != nil {
			log.Printf("cache: set %s failed: %v", key, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) cacheKey(r *http.Request) string {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		return ""
	}
	userID, err := claims.UserID()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("cache:%s:%s?%s", userID, r.URL.Path, r.URL.RawQuery)
}

// Utilities

func (s *Server) requireUserID(w http.ResponseWriter, r *http.Request) string {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return ""
	}
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return ""
	}
	return userID
}

// writeCanvasError maps an upstream failure to a response. Canvas's own
// verdicts keep their message; everything else (including rewritten transport
// errors) surfaces as a 500 with the message intact.
func (s *Server) writeCanvasError(w http.ResponseWriter, err error) {
	var apiErr *canvas.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			writeError(w, http.StatusBadRequest, apiErr.Message)
			return
		}
		if apiErr.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, apiErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, apiErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parseIDList(raw []string) []int64 {
	var ids []int64
	for _, value := range raw {
		if id, err := parseID(value); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// includeParams accepts both include[]= and include= spellings.
func includeParams(r *http.Request) []string {
	query := r.URL.Query()
	if values := query["include[]"]; len(values) > 0 {
		return values
	}
	return query["include"]
}

func gradeString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
