// Package match is the business layer of the match service. It loads
// profiles, jobs and weights from the repository, runs the scorer and the
// calibrator, persists the results and announces them on the event bus.
// It is transport-agnostic: used by the HTTP handler, the gRPC server, the
// event subscriber and the discovery worker.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobmate/match-service/internal/calibration"
	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
	"jobmate/match-service/internal/store"
)

// Channels published by the service.
const (
	ChannelJobScored      = "EVENT_JOB_SCORED"
	ChannelWeightsUpdated = "EVENT_WEIGHTS_UPDATED"
)

// ─── Dependencies ────────────────────────────────────────────────────────────

// Repository is the persistence the service needs. *store.Store implements it.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) error
	ApplicationJob(ctx context.Context, userID, appID string) (model.Job, error)
	JobFeedEntry(ctx context.Context, jobFeedID string) (model.Job, error)
	GetWeights(ctx context.Context, userID string) (store.WeightsRecord, error)
	ResetWeights(ctx context.Context, userID string) (store.WeightsRecord, error)
	AppendScore(ctx context.Context, rec store.ScoreRecord) (store.ScoreRecord, error)
	ListScores(ctx context.Context, userID, appID string, limit int) ([]store.ScoreRecord, error)
	RecordFeedback(ctx context.Context, userID, appID string, fb model.Feedback, calibrate func(scoring.Weights) scoring.Weights) (store.FeedbackRecord, error)
}

// Publisher sends a JSON event on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Recorder receives scoring and calibration counts. *metrics.Metrics
// implements it.
type Recorder interface {
	ObserveScore(source string, score int)
	ObserveFeedback(outcome, factor string)
}

// Score sources reported to the Recorder.
const (
	SourceAdHoc       = "adhoc"
	SourceApplication = "application"
	SourceJobFeed     = "job_feed"
)

type nopRecorder struct{}

func (nopRecorder) ObserveScore(string, int) {}
func (nopRecorder) ObserveFeedback(string, string) {}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the scoring and calibration workflows.
type Service struct {
	repo   Repository
	pub    Publisher
	scorer *scoring.Scorer
	rec    Recorder
	log    *zap.Logger
}

// NewService returns a configured Service. pub may be nil (CLI use).
func NewService(repo Repository, pub Publisher, scorer *scoring.Scorer, log *zap.Logger) *Service {
	if scorer == nil {
		scorer = scoring.NewScorer(time.Now)
	}
	return &Service{repo: repo, pub: pub, scorer: scorer, rec: nopRecorder{}, log: logger.WithFields(log)}
}

// WithRecorder reports scores and feedback to r.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.rec = r
	}
	return s
}

// ScoreAdHoc scores a caller-supplied profile and job without touching the
// database. Both are validated first.
func (s *Service) ScoreAdHoc(profile model.Profile, job model.Job, weights scoring.Option) (scoring.Result, error) {
	if err := profile.Validate(); err != nil {
		return scoring.Result{}, &ValidationError{Msg: "profile: " + err.Error()}
	}
	if err := job.Validate(); err != nil {
		return scoring.Result{}, &ValidationError{Msg: "job: " + err.Error()}
	}
	res := s.scorer.Calculate(profile, job, weights)
	s.rec.ObserveScore(SourceAdHoc, res.Breakdown.CalibratedScore)
	return res, nil
}

// ScoreApplication scores the application's job against the user's profile
// with the user's current weights, persists the breakdown and publishes
// EVENT_JOB_SCORED.
func (s *Service) ScoreApplication(ctx context.Context, userID, appID string) (*store.ScoreRecord, error) {
	job, err := s.repo.ApplicationJob(ctx, userID, appID)
	if err != nil {
		return nil, mapRepoErr("application", err)
	}
	return s.scoreAndStore(ctx, userID, appID, job)
}

// ScoreJobFeed scores a job_feed entry for userID. Used by discovery to rank
// freshly ingested postings before the user turns them into applications.
func (s *Service) ScoreJobFeed(ctx context.Context, userID, jobFeedID string) (*store.ScoreRecord, error) {
	job, err := s.repo.JobFeedEntry(ctx, jobFeedID)
	if err != nil {
		return nil, mapRepoErr("job posting", err)
	}
	return s.scoreAndStore(ctx, userID, "", job)
}

func (s *Service) scoreAndStore(ctx context.Context, userID, appID string, job model.Job) (*store.ScoreRecord, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, mapRepoErr("profile", err)
	}
	weights, err := s.repo.GetWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	result := s.scorer.Calculate(profile, job, scoring.Some(weights.Weights))

	rec, err := s.repo.AppendScore(ctx, store.ScoreRecord{
		UserID:         userID,
		ApplicationID:  appID,
		JobRef:         job.ID,
		WeightsVersion: weights.Version,
		Result:         result,
	})
	if err != nil {
		return nil, fmt.Errorf("store score: %w", err)
	}

	source := SourceApplication
	if appID == "" {
		source = SourceJobFeed
	}
	s.rec.ObserveScore(source, result.Breakdown.CalibratedScore)

	s.log.Info("job scored",
		append(logger.ScoreFields(userID, appID),
			zap.String("job", logger.TruncateForLog(job.Title, 60)),
			zap.Int("score", result.Breakdown.CalibratedScore),
			zap.Int("weights_version", weights.Version),
		)...)

	s.publish(ctx, ChannelJobScored, map[string]any{
		"type":          ChannelJobScored,
		"userId":        userID,
		"applicationId": appID,
		"jobRef":        job.ID,
		"scoreId":       rec.ID.String(),
		"matchScore":    result.Breakdown.CalibratedScore,
	})
	return &rec, nil
}

// ListScores returns the breakdown history of an application, newest first.
func (s *Service) ListScores(ctx context.Context, userID, appID string, limit int) ([]store.ScoreRecord, error) {
	recs, err := s.repo.ListScores(ctx, userID, appID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return recs, nil
}

// SubmitFeedback validates raw feedback, runs the calibrator on the user's
// weights under the store's per-user lock and publishes EVENT_WEIGHTS_UPDATED.
func (s *Service) SubmitFeedback(ctx context.Context, userID, appID, outcome string, accuracy int, factor string) (*store.FeedbackRecord, error) {
	fb, err := model.ParseFeedback(outcome, accuracy, factor)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	rec, err := s.repo.RecordFeedback(ctx, userID, appID, fb, func(w scoring.Weights) scoring.Weights {
		return calibration.UpdateWeights(w, fb)
	})
	if err != nil {
		return nil, mapRepoErr("application", err)
	}

	s.log.Info("weights calibrated",
		append(logger.ScoreFields(userID, appID),
			zap.String("outcome", string(fb.Outcome)),
			zap.Int("accuracy", fb.Accuracy),
			zap.String("factor", string(fb.Factor)),
			zap.Float64("bias", rec.After.Weights.Bias),
			zap.Int("version", rec.After.Version),
		)...)

	s.rec.ObserveFeedback(string(fb.Outcome), string(fb.Factor))
	s.publishWeights(ctx, "feedback", rec.After)
	return &rec, nil
}

// GetWeights returns the user's weights, creating the defaults on first use.
func (s *Service) GetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error) {
	rec, err := s.repo.GetWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get weights: %w", err)
	}
	return &rec, nil
}

// ResetWeights restores the default weights for the user.
func (s *Service) ResetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error) {
	rec, err := s.repo.ResetWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reset weights: %w", err)
	}
	s.log.Info("weights reset", logger.ScoreFields(userID, "")...)
	s.publishWeights(ctx, "reset", rec)
	return &rec, nil
}

// GetProfile returns the stored candidate profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, mapRepoErr("profile", err)
	}
	return &p, nil
}

// SaveProfile validates and stores the candidate profile for userID.
func (s *Service) SaveProfile(ctx context.Context, userID string, p model.Profile) (*model.Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	p.UserID = userID
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &p, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Service) publishWeights(ctx context.Context, reason string, rec store.WeightsRecord) {
	s.publish(ctx, ChannelWeightsUpdated, map[string]any{
		"type":    ChannelWeightsUpdated,
		"userId":  rec.UserID,
		"reason":  reason,
		"version": rec.Version,
		"weights": rec.Weights,
	})
}

// publish is best effort: a failed publish never fails the request.
func (s *Service) publish(ctx context.Context, channel string, payload any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, channel, payload); err != nil {
		s.log.Warn("publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

func mapRepoErr(what string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, store.ErrNoPosting):
		return &ValidationError{Msg: err.Error()}
	default:
		return fmt.Errorf("load %s: %w", what, err)
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when an application, posting or profile is missing
// or does not belong to the user.
var ErrNotFound = errors.New("not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
