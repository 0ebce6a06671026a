package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BSFactor/Academic-Calendar/internal/apperr"
	"github.com/BSFactor/Academic-Calendar/internal/auth"
	"github.com/BSFactor/Academic-Calendar/internal/config"
	"github.com/BSFactor/Academic-Calendar/internal/crypto"
	"github.com/BSFactor/Academic-Calendar/internal/model"
	"github.com/BSFactor/Academic-Calendar/internal/policy"
	"github.com/BSFactor/Academic-Calendar/internal/repository"
	"github.com/BSFactor/Academic-Calendar/internal/roster"
	"github.com/BSFactor/Academic-Calendar/internal/workflow"
)

const calendarCacheKey = "calendar:approved"

type Server struct {
	cfg    config.Config
	store  *repository.Store
	engine *workflow.Engine
	redis  *redis.Client
	logger *zap.Logger
}

func NewServer(cfg config.Config, store *repository.Store, engine *workflow.Engine, redisClient *redis.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		engine: engine,
		redis:  redisClient,
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh", s.handleRefresh)
	r.With(s.authMiddleware).Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware).Get("/auth/me", s.handleGetMe)

	r.Route("/events", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleProposeEvent)
		r.Get("/mine", s.handleMyEvents)
		r.Get("/pending", s.handlePendingEvents)
		r.Get("/calendar", s.handleCalendar)
		r.Post("/{eventID}/review", s.handleReviewEvent)
	})

	r.Route("/students", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireStudentManager)
		r.Post("/", s.handleCreateStudent)
		r.Post("/bulk", s.handleBulkStudentUpload)
		r.Delete("/{studentID}", s.handleDeleteStudent)
	})

	return r
}

// Auth endpoints

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userSummary `json:"user"`
}

type userSummary struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}
	if !allowedSignupRole(role) {
		writeError(w, http.StatusBadRequest, "role_not_allowed")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, "signup", err)
		return
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.writeAppError(w, err)
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), user, r.UserAgent(), clientIP(r))
	if err != nil {
		s.serverError(w, "signup", err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         summarize(user),
	})
}

// allowedSignupRole limits self-service signup to the roles the public
// form offers. Tutor and administrator accounts are provisioned, never
// self-assigned.
func allowedSignupRole(role model.Role) bool {
	switch role {
	case model.RoleStudent, model.RoleAcademicAssistant, model.RoleDepartmentAssistant:
		return true
	default:
		return false
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.serverError(w, "login", err)
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), user, r.UserAgent(), clientIP(r))
	if err != nil {
		s.serverError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         summarize(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing_refresh_token")
		return
	}

	tokenHash := crypto.HashToken(req.RefreshToken)
	session, err := s.store.GetRefreshSession(r.Context(), tokenHash)
	if err != nil {
		if apperr.KindOf(err) == apperr.Authentication {
			writeError(w, http.StatusUnauthorized, "invalid_refresh_token")
			return
		}
		s.serverError(w, "refresh", err)
		return
	}
	if session.RevokedAt != nil || session.ExpiresAt.Before(time.Now().UTC()) {
		writeError(w, http.StatusUnauthorized, "refresh_token_expired")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user_not_found")
		return
	}
	if err := s.store.RevokeRefreshSession(r.Context(), session.ID, time.Now().UTC()); err != nil {
		s.serverError(w, "refresh", err)
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), user, r.UserAgent(), clientIP(r))
	if err != nil {
		s.serverError(w, "refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         summarize(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	if err := s.store.RevokeRefreshSessionsByUser(r.Context(), claims.UserID, time.Now().UTC()); err != nil {
		s.logger.Warn("logout revocation failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(user))
}

func (s *Server) issueTokens(ctx context.Context, user model.User, userAgent, ip string) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := crypto.NewRefreshToken()
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	session := model.RefreshSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if ip != "" {
		session.IPAddress = &ip
	}
	if err := s.store.CreateRefreshSession(ctx, session); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Event endpoints

type proposeEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type eventResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Status      string  `json:"status"`
	AssignedTo  string  `json:"assigned_to"`
	ApprovedBy  *string `json:"approved_by"`
}

func (s *Server) handleProposeEvent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req proposeEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_time")
		return
	}
	endTime, err := parseTimestamp(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end_time")
		return
	}

	event, err := s.engine.Propose(r.Context(), identityOf(claims), workflow.ProposeInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   startTime,
		EndTime:     endTime,
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapEventResponse(event))
}

func (s *Server) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	events, err := s.engine.ListMine(r.Context(), identityOf(claims))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEventResponses(events))
}

func (s *Server) handlePendingEvents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	events, err := s.engine.PendingQueue(r.Context(), identityOf(claims))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEventResponses(events))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	if cached, ok := s.cachedCalendar(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	events, err := s.engine.Calendar(r.Context(), identityOf(claims))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	payload, err := json.Marshal(mapEventResponses(events))
	if err != nil {
		s.serverError(w, "calendar", err)
		return
	}
	s.storeCalendar(r.Context(), payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

type reviewEventRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleReviewEvent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	eventID := chi.URLParam(r, "eventID")
	if _, err := uuid.Parse(eventID); err != nil {
		// Event ids are uuids; anything else can't name an event.
		writeError(w, http.StatusNotFound, "event_not_found")
		return
	}

	var req reviewEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	event, err := s.engine.Review(r.Context(), identityOf(claims), eventID, req.Action)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	if event.Status == model.StatusApproved {
		s.invalidateCalendar(r.Context())
	}
	writeJSON(w, http.StatusOK, mapEventResponse(event))
}

func identityOf(claims *auth.Claims) workflow.Identity {
	return workflow.Identity{UserID: claims.UserID, Role: claims.Role}
}

func mapEventResponse(event model.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime.UTC().Format(time.RFC3339),
		EndTime:     event.EndTime.UTC().Format(time.RFC3339),
		Status:      string(event.Status),
		AssignedTo:  event.AssignedTo,
		ApprovedBy:  event.ApprovedBy,
	}
}

func mapEventResponses(events []model.Event) []eventResponse {
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, mapEventResponse(event))
	}
	return resp
}

// Calendar cache: the shared approved-events view is read by everyone and
// changes only on approval, so it sits in redis for a short TTL. All
// helpers are no-ops when redis is not configured.

func (s *Server) cachedCalendar(ctx context.Context) ([]byte, bool) {
	if s.redis == nil {
		return nil, false
	}
	value, err := s.redis.Get(ctx, calendarCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("calendar cache read failed", zap.Error(err))
		return nil, false
	}
	return value, true
}

func (s *Server) storeCalendar(ctx context.Context, payload []byte) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, calendarCacheKey, payload, s.cfg.CalendarCacheTTL).Err(); err != nil {
		s.logger.Warn("calendar cache write failed", zap.Error(err))
	}
}

func (s *Server) invalidateCalendar(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, calendarCacheKey).Err(); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

// Student roster endpoints

type createStudentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"student_id"`
	DOB       string `json:"dob"`
	Year      int    `json:"year"`
}

type studentResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"student_id"`
	DOB       string `json:"dob"`
	Year      int    `json:"year"`
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.StudentID = strings.TrimSpace(req.StudentID)
	if req.Name == "" || req.Email == "" || req.StudentID == "" || req.DOB == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	dob, err := roster.ParseDOB(req.DOB)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_dob")
		return
	}
	year := req.Year
	if year < 1 {
		year = 1
	}

	profile, user, err := s.createStudentAccount(r.Context(), roster.Row{
		Name:      req.Name,
		StudentID: req.StudentID,
		Email:     req.Email,
		DOB:       dob,
	}, year)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapStudentResponse(profile, user))
}

type bulkUploadResponse struct {
	Created int               `json:"created"`
	Errors  []roster.RowError `json:"errors"`
	Details []bulkRowDetail   `json:"details"`
}

type bulkRowDetail struct {
	Row       int    `json:"row"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// handleBulkStudentUpload ingests an xlsx roster. Bad rows are reported
// per line and never abort the batch.
func (s *Server) handleBulkStudentUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file")
		return
	}
	defer file.Close()

	rows, rowErrors, err := roster.ParseWorkbook(file)
	if err != nil {
		s.writeAppError(w, err)
		return
	}

	resp := bulkUploadResponse{
		Errors:  append([]roster.RowError{}, rowErrors...),
		Details: make([]bulkRowDetail, 0, len(rows)),
	}
	for _, row := range rows {
		profile, user, err := s.createStudentAccount(r.Context(), row, 1)
		if err != nil {
			resp.Errors = append(resp.Errors, roster.RowError{Line: row.Line, Err: apperr.CodeOf(err)})
			continue
		}
		resp.Created++
		resp.Details = append(resp.Details, bulkRowDetail{
			Row:       row.Line,
			StudentID: profile.StudentID,
			Email:     profile.Email,
			Username:  user.Username,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if _, err := uuid.Parse(studentID); err != nil {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}
	if err := s.store.DeleteStudent(r.Context(), studentID); err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// createStudentAccount provisions the backing account and profile for one
// roster row: generated username, generated initial password
// (student id + DOB as DDMMYYYY), student role.
func (s *Server) createStudentAccount(ctx context.Context, row roster.Row, year int) (model.StudentProfile, model.User, error) {
	if taken, err := s.store.StudentIDExists(ctx, row.StudentID); err != nil {
		return model.StudentProfile{}, model.User{}, err
	} else if taken {
		return model.StudentProfile{}, model.User{}, apperr.New(apperr.Duplicate, "student_id_taken")
	}
	if taken, err := s.store.StudentEmailExists(ctx, row.Email); err != nil {
		return model.StudentProfile{}, model.User{}, err
	} else if taken {
		return model.StudentProfile{}, model.User{}, apperr.New(apperr.Duplicate, "student_email_taken")
	}

	username, err := roster.Username(row.Name, row.StudentID, func(candidate string) (bool, error) {
		return s.store.UsernameExists(ctx, candidate)
	})
	if err != nil {
		return model.StudentProfile{}, model.User{}, err
	}
	hash, err := crypto.HashPassword(roster.Password(row.StudentID, row.DOB))
	if err != nil {
		return model.StudentProfile{}, model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        row.Email,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := model.StudentProfile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      row.Name,
		Email:     row.Email,
		StudentID: row.StudentID,
		DOB:       row.DOB,
		Year:      year,
		CreatedAt: now,
	}
	if err := s.store.CreateStudent(ctx, user, profile); err != nil {
		return model.StudentProfile{}, model.User{}, err
	}
	return profile, user, nil
}

func mapStudentResponse(profile model.StudentProfile, user model.User) studentResponse {
	return studentResponse{
		ID:        profile.ID,
		Username:  user.Username,
		Name:      profile.Name,
		Email:     profile.Email,
		StudentID: profile.StudentID,
		DOB:       profile.DOB.Format("2006-01-02"),
		Year:      profile.Year,
	}
}

// Middleware and helpers

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
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireStudentManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || !policy.CanManageStudents(claims.Role) {
			writeError(w, http.StatusForbidden, "insufficient_role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func summarize(user model.User) userSummary {
	return userSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(raw))
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

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return ""
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, apperr.CodeOf(err))
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "server_error")
}
