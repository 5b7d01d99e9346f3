package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gymflow/internal/logger"
	"gymflow/internal/metrics"

	"github.com/redis/go-redis/v9"
	"gopkg.in/gomail.v2"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

// Sender delivers a single message.
type Sender interface {
	Send(job EmailJob) error
}

type smtpSender struct {
	cfg Config
}

func (s *smtpSender) Send(job EmailJob) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetAddressHeader("To", job.To, job.Name)
	m.SetHeader("Subject", job.Subject)
	m.SetBody("text/plain", job.Body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	return d.DialAndSend(m)
}

type Service struct {
	redis        *redis.Client
	sender       Sender
	retryDelay   time.Duration
	errorBackoff time.Duration
}

func New(cfg Config, client *redis.Client) *Service {
	return &Service{
		redis:        client,
		sender:       &smtpSender{cfg: cfg},
		retryDelay:   5 * time.Second,
		errorBackoff: 2 * time.Second,
	}
}

// Send queues a message for the background worker.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "error", err)
		return err
	}

	logger.Debug("email queued", "to", to, "subject", subject)
	return nil
}

func (s *Service) SendNotification(ctx context.Context, to, name, title, message string) error {
	body := fmt.Sprintf(`Hi %s,

%s

- Gymflow`, name, message)

	return s.Send(ctx, to, name, title, body)
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("email queue unavailable", "error", err, "retry_in", s.errorBackoff)
		}
		select {
		case <-ctx.Done():
		case <-time.After(s.errorBackoff):
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return
	}

	job.Tries++
	if err := s.sender.Send(job); err != nil {
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			time.Sleep(s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
		} else {
			metrics.RecordEmail("failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail("success")
	logger.Info("email sent", "to", job.To, "subject", job.Subject)
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.SetEmailQueueLength(length)
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
