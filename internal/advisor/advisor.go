// Package advisor produces the assistant's chat replies and product tips.
//
// The text itself comes from a Generator. The Service wraps it with the
// storefront persona, a per-call timeout, a rate limit, a cache for product
// tips and fixed fallback replies, so callers always get a string back.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// FallbackUnavailable is returned when the generator fails or is not configured
	FallbackUnavailable = "I'm having trouble connecting to my brain right now. Please try again later!"
	// FallbackEmpty is returned when the generator answers with no text
	FallbackEmpty = "I'm sorry, I couldn't process that request."
)

// ErrNotConfigured is reported by the Service when it has no generator
var ErrNotConfigured = errors.New("advisor: no generator configured")

// Tier selects the model quality
type Tier string

const (
	TierFast Tier = "fast"
	TierPro  Tier = "pro"
)

// Request is one generation call
type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
}

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config tunes the Service
type Config struct {
	FastModel     string
	ProModel      string
	Timeout       time.Duration
	RatePerMinute int
	TipTTL        time.Duration
}

// Service is the storefront assistant
type Service struct {
	gen     Generator
	cfg     Config
	limiter *rate.Limiter
	tips    *TipCache
	metrics *metrics.AppMetrics
}

// New creates a Service. A nil gen is allowed: every call then returns
// FallbackUnavailable without leaving the process.
func New(gen Generator, cfg Config, m *metrics.AppMetrics) *Service {
	limit := rate.Inf
	burst := 1
	if cfg.RatePerMinute > 0 {
		limit = rate.Limit(float64(cfg.RatePerMinute) / 60)
		burst = cfg.RatePerMinute
	}
	return &Service{
		gen:     gen,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		tips:    NewTipCache(cfg.TipTTL, m),
		metrics: m,
	}
}

// Greeting is the first chat message for a vertical
func Greeting(v models.Vertical) string {
	return fmt.Sprintf("Namaste! I'm your Mookkammal Assistant. How can I help you in our %s department today?", strings.ToLower(string(v)))
}

// Persona is the system instruction sent with every request
func Persona(v models.Vertical) string {
	return "You are the AI Assistant for Mookkammal Group.\n" +
		"We have two verticals: Mookkammal Textiles (Heritage, Sarees, Dhotis, Fashion) and Mookkammal Super Market (Quality Groceries, Fresh Produce).\n" +
		"The current vertical being browsed is " + string(v) + ".\n" +
		"Be polite, professional, and helpful. Use product details from the catalog if relevant.\n" +
		"Keep responses concise but insightful."
}

// TipsPrompt asks for styling tips on textiles and cooking ideas on groceries
func TipsPrompt(p models.Product) string {
	if p.Vertical == models.VerticalSupermarket {
		return fmt.Sprintf("Provide unique cooking tips or recipe ideas for this item: %s. Description: %s", p.Name, p.Description)
	}
	return fmt.Sprintf("Provide professional fashion styling tips for this item: %s. Description: %s", p.Name, p.Description)
}

// Ask answers a free-text chat prompt while the shopper browses vertical v
func (s *Service) Ask(ctx context.Context, v models.Vertical, prompt string, tier Tier) string {
	reply, _ := s.generate(ctx, v, prompt, tier, "chat")
	return reply
}

// ProductTips returns the assistant's perspective on a product. Successful
// answers are cached per product content and browsed vertical.
func (s *Service) ProductTips(ctx context.Context, v models.Vertical, p models.Product) string {
	key := tipKey(v, p)
	if tip, ok := s.tips.Get(ctx, key); ok {
		return tip
	}
	tip, err := s.generate(ctx, v, TipsPrompt(p), TierFast, "tips")
	if err == nil {
		s.tips.Set(key, tip)
	}
	return tip
}

// tipKey covers every input of the tips request, so an edited product or a
// different persona misses the cache
func tipKey(v models.Vertical, p models.Product) string {
	return strings.Join([]string{p.ID, string(p.Vertical), string(v), p.Name, p.Description}, "\x00")
}

// generate always returns a displayable reply; err reports whether it is a fallback
func (s *Service) generate(ctx context.Context, v models.Vertical, prompt string, tier Tier, kind string) (string, error) {
	model := s.model(tier)
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("tier", string(tier)),
		attribute.String("vertical", string(v)),
	}
	s.metrics.AdvisorRequests.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))

	reply, err := s.call(ctx, Request{Model: model, SystemInstruction: Persona(v), Prompt: prompt})
	if err != nil {
		logger.Error(ctx, "Advisor request failed", err, zap.String("model", model), zap.String("kind", kind))
		s.fallback(ctx, attrs, "error")
		return FallbackUnavailable, err
	}
	if strings.TrimSpace(reply) == "" {
		logger.Warn(ctx, "Advisor returned empty text", zap.String("model", model), zap.String("kind", kind))
		s.fallback(ctx, attrs, "empty")
		return FallbackEmpty, errors.New("advisor: empty response")
	}
	return reply, nil
}

func (s *Service) call(ctx context.Context, req Request) (string, error) {
	if s.gen == nil {
		return "", ErrNotConfigured
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("advisor: rate limited: %w", err)
	}
	return s.gen.Generate(ctx, req)
}

func (s *Service) fallback(ctx context.Context, attrs []attribute.KeyValue, reason string) {
	attrs = append(attrs, attribute.String("reason", reason))
	s.metrics.AdvisorFallbacks.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))
}

func (s *Service) model(tier Tier) string {
	if tier == TierPro {
		return s.cfg.ProModel
	}
	return s.cfg.FastModel
}
