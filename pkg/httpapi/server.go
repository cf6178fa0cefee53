// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpapi exposes the interview engine over HTTP. The API is a thin
// transliteration of the round loop: the client drives question/answer pacing,
// so there is no server-side follow-up loop.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/parley-ai/parley/pkg/export"
	"github.com/parley-ai/parley/pkg/interview"
	"github.com/parley-ai/parley/pkg/message"
	"github.com/parley-ai/parley/pkg/profile"
	"github.com/parley-ai/parley/pkg/roles"
	"github.com/parley-ai/parley/pkg/telemetry"
	"github.com/parley-ai/parley/pkg/topics"
)

// maxUploadBytes caps resume and job-description uploads.
const maxUploadBytes = 1 << 20

// Config holds the HTTP server settings.
type Config struct {
	Addr        string
	CORSOrigins []string
	// TopicsPath optionally points at a YAML topic plan; otherwise topics are
	// inferred from the uploaded documents.
	TopicsPath string
	Version    string
}

// Server serves the interview API over an injected session store.
type Server struct {
	cfg   Config
	store SessionStore

	interviewer  roles.Role
	evaluator    roles.Role
	topicManager roles.Role
	hints        roles.Role

	archive *export.Archive
	metrics *telemetry.InterviewMetrics
	logger  *slog.Logger
	started time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithArchive persists finalized sessions to the archive.
func WithArchive(a *export.Archive) ServerOption {
	return func(s *Server) { s.archive = a }
}

// WithMetrics attaches interview metrics.
func WithMetrics(m *telemetry.InterviewMetrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer assembles the API server over the four role handlers.
func NewServer(cfg Config, store SessionStore, interviewer, evaluator, topicManager, hints roles.Role, opts ...ServerOption) *Server {
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	s := &Server{
		cfg:          cfg,
		store:        store,
		interviewer:  interviewer,
		evaluator:    evaluator,
		topicManager: topicManager,
		hints:        hints,
		logger:       slog.Default().With("component", "httpapi"),
		started:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.CORSOrigins))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)
		r.Post("/next", s.handleNext)
		r.Post("/answer", s.handleAnswer)
		r.Get("/export/{sessionID}", s.handleExport)
		r.Get("/sessions/{sessionID}", s.handleSummary)
	})
	return r
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type createSessionResponse struct {
	SessionID     string   `json:"session_id"`
	CandidateName string   `json:"candidate_name"`
	TargetRole    string   `json:"target_role"`
	Topics        []string `json:"topics"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 * maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with resume and jd files")
		return
	}
	resumeText, err := formFileText(r, "resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "resume file is required")
		return
	}
	jdText, err := formFileText(r, "jd")
	if err != nil {
		writeError(w, http.StatusBadRequest, "jd file is required")
		return
	}

	candidateName := profile.CandidateName(resumeText)
	targetRole := profile.TargetRole(jdText)
	plan := topics.Load(s.cfg.TopicsPath, resumeText, jdText)

	session := interview.NewSession(candidateName, targetRole, resumeText, jdText, plan)
	s.store.Put(&Entry{Session: session})
	s.metrics.SessionStarted(r.Context())
	s.logger.InfoContext(r.Context(), "session created",
		"session_id", session.ID, "candidate", candidateName, "target_role", targetRole)

	writeJSON(w, http.StatusOK, createSessionResponse{
		SessionID:     session.ID,
		CandidateName: candidateName,
		TargetRole:    targetRole,
		Topics:        session.Plan.TopicNames(),
	})
}

type nextRequest struct {
	SessionID string `json:"session_id"`
}

type nextResponse struct {
	Topic    string `json:"topic"`
	Depth    int    `json:"depth"`
	Question string `json:"question"`
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	var req nextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, ok := s.store.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.Session
	current := session.Plan.Current()
	if current == nil || session.Plan.Finished() {
		writeError(w, http.StatusBadRequest, "no more topics")
		return
	}

	topicName := current.Topic.Name
	qMsg, err := s.interviewer.Handle(r.Context(),
		message.New(roles.NameOrchestrator, roles.NameInterviewer, message.KindRequestQuestion, "next",
			message.WithTopic(topicName),
			message.WithPayload(message.QuestionRequest{AvoidQuestions: session.RecentQuestions(5)})),
		session)
	if err != nil || qMsg == nil {
		writeError(w, http.StatusInternalServerError, "failed to produce question")
		return
	}

	entry.PendingQuestion = qMsg.Content
	writeJSON(w, http.StatusOK, nextResponse{
		Topic:    topicName,
		Depth:    current.Depth,
		Question: qMsg.Content,
	})
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type answerResponse struct {
	Topic            string   `json:"topic"`
	Score            float64  `json:"score"`
	BriefFeedback    string   `json:"brief_feedback"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	FollowUpQuestion string   `json:"follow_up_question"`
	Hint             string   `json:"hint,omitempty"`
	TopicAction      string   `json:"topic_action"`
	CurrentTopic     string   `json:"current_topic"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, ok := s.store.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.Session
	current := session.Plan.Current()
	if current == nil {
		writeError(w, http.StatusBadRequest, "session finished")
		return
	}
	topicName := current.Topic.Name

	switch cmd := strings.ToLower(strings.TrimSpace(req.Answer)); {
	case cmd == "/quit" || cmd == "quit":
		session.Finalize()
		s.archiveSession(r.Context(), session)
		writeJSON(w, http.StatusOK, answerResponse{
			Topic:         topicName,
			BriefFeedback: "Session ended.",
			Strengths:     []string{},
			Improvements:  []string{},
			TopicAction:   roles.ActionNext,
			CurrentTopic:  "Finished",
		})
		return
	case cmd == "/next" || cmd == "/skip" || cmd == "next" || cmd == "skip":
		update, _ := s.topicManager.Handle(r.Context(),
			message.New(roles.NameOrchestrator, roles.NameTopicManager, message.KindControl, "control",
				message.WithTopic(topicName),
				message.WithPayload(message.Control{Command: "next"})),
			session)
		action := roles.ActionNext
		if update != nil {
			action = update.Content
		}
		writeJSON(w, http.StatusOK, answerResponse{
			Topic:         topicName,
			BriefFeedback: "Topic switched.",
			Strengths:     []string{},
			Improvements:  []string{},
			TopicAction:   action,
			CurrentTopic:  currentTopicName(session),
		})
		return
	}

	question := entry.PendingQuestion
	if question == "" {
		question = "(unspecified)"
	}
	interaction := session.RecordInteraction(topicName, question, req.Answer)

	evalMsg, err := s.evaluator.Handle(r.Context(),
		message.New(roles.NameOrchestrator, roles.NameEvaluator, message.KindEvaluateResponse, req.Answer,
			message.WithTopic(topicName),
			message.WithPayload(message.EvaluationRequest{Question: question})),
		session)
	if err != nil || evalMsg == nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate answer")
		return
	}
	eval, _ := evalMsg.EvaluationResult()
	interaction.Evaluation = &interview.Evaluation{
		Score:            eval.Score,
		BriefFeedback:    evalMsg.Content,
		Strengths:        eval.Strengths,
		Improvements:     eval.Improvements,
		FollowUpQuestion: eval.FollowUpQuestion,
	}

	hintText := ""
	if hintMsg, err := s.hints.Handle(r.Context(), evalMsg, session); err == nil && hintMsg != nil {
		hintText = hintMsg.Content
	}

	action := roles.ActionStay
	if update, err := s.topicManager.Handle(r.Context(), evalMsg, session); err == nil && update != nil {
		action = update.Content
	}

	entry.PendingQuestion = eval.FollowUpQuestion
	s.metrics.RoundCompleted(r.Context())

	writeJSON(w, http.StatusOK, answerResponse{
		Topic:            topicName,
		Score:            eval.Score,
		BriefFeedback:    evalMsg.Content,
		Strengths:        emptyIfNil(eval.Strengths),
		Improvements:     emptyIfNil(eval.Improvements),
		FollowUpQuestion: eval.FollowUpQuestion,
		Hint:             hintText,
		TopicAction:      action,
		CurrentTopic:     currentTopicName(session),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.store.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	writeJSON(w, http.StatusOK, export.FromSession(entry.Session))
}

type summaryResponse struct {
	SessionID    string  `json:"session_id"`
	NumQuestions int     `json:"num_questions"`
	AvgScore     float64 `json:"avg_score"`
	CurrentTopic string  `json:"current_topic"`
	Finished     bool    `json:"finished"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.store.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.Session
	avg, _ := session.AverageScore()
	writeJSON(w, http.StatusOK, summaryResponse{
		SessionID:    session.ID,
		NumQuestions: len(session.Interactions),
		AvgScore:     math.Round(avg*100) / 100,
		CurrentTopic: currentTopicName(session),
		Finished:     session.Finalized() || session.Plan.Finished(),
	})
}

type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Sessions      int     `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.started).Seconds(),
		Sessions:      s.store.Len(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.cfg.Version, "api": "v1"})
}

func (s *Server) archiveSession(ctx context.Context, session *interview.Session) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, session); err != nil {
		s.logger.WarnContext(ctx, "failed to archive session", "session_id", session.ID, "error", err)
	}
}

func currentTopicName(session *interview.Session) string {
	if current := session.Plan.Current(); current != nil {
		return current.Topic.Name
	}
	return "Finished"
}

func formFileText(r *http.Request, field string) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
