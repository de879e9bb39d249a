package highlighter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
)

// Control actions understood by the Dispatcher.
const (
	ActionToggleHighlighting = "toggleHighlighting"
	ActionUpdateConfig       = "updateConfig"
	ActionGetConfig          = "getConfig"
	ActionRefresh            = "refresh"
	ActionClearCache         = "clearCache"
	ActionUpdatePerformance  = "updatePerformance"
)

// Request is the control message envelope.
type Request struct {
	Action   string          `json:"action"`
	Enabled  *bool           `json:"enabled,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Response answers a Request. Error is set only when Success is false.
type Response struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	Enabled     *bool           `json:"enabled,omitempty"`
	Config      *ConfigDTO      `json:"config,omitempty"`
	Stats       *StatsDTO       `json:"stats,omitempty"`
	Performance *PerformanceDTO `json:"performanceMetrics,omitempty"`
}

// ConfigDTO is the wire form of entity.HighlightConfig. Durations are ms.
type ConfigDTO struct {
	Enabled                bool              `json:"enabled"`
	ProcessingDelay        int64             `json:"processingDelay"`
	MaxLinksPerBatch       int               `json:"maxLinksPerBatch"`
	MaxLinksPerPage        int               `json:"maxLinksPerPage"`
	AdaptivePerformance    bool              `json:"adaptivePerformance"`
	IncludedProtocols      []string          `json:"includedProtocols"`
	PreserveClassChanges   bool              `json:"preserveClassChanges"`
	ThrottleDynamicContent bool              `json:"throttleDynamicContent"`
	ThrottleDelay          int64             `json:"throttleDelay"`
	Colors                 map[string]string `json:"colors"`
}

// StatsDTO is the wire form of entity.HighlightStats.
type StatsDTO struct {
	SessionID              string  `json:"sessionId"`
	CacheSize              int     `json:"cacheSize"`
	PendingQueries         int     `json:"pendingQueries"`
	ProcessedLinks         int     `json:"processedLinks"`
	Enabled                bool    `json:"isEnabled"`
	ProcessingDelay        int64   `json:"processingDelay"`
	MaxLinksPerBatch       int     `json:"maxLinksPerBatch"`
	ThrottleDelay          int64   `json:"throttleDelay"`
	ThrottleDynamicContent bool    `json:"throttleDynamicContent"`
	ThrottledUpdates       int64   `json:"throttledUpdates"`
	LastProcessTime        float64 `json:"lastProcessTime"`
	AverageProcessingTime  float64 `json:"averageProcessingTime"`
}

// PerformanceDTO is the wire form of entity.PerformanceMetrics.
type PerformanceDTO struct {
	TotalLinksProcessed   int64   `json:"totalLinksProcessed"`
	DOMUpdates            int64   `json:"domUpdates"`
	ThrottledUpdates      int64   `json:"throttledUpdates"`
	LastProcessTime       float64 `json:"lastProcessTime"`
	AverageProcessingTime float64 `json:"averageProcessingTime"`
}

// PerformanceSettingsDTO is the payload of updatePerformance. Missing
// fields are left unchanged; durations are ms.
type PerformanceSettingsDTO struct {
	ProcessingDelay        *int64 `json:"processingDelay,omitempty"`
	MaxLinksPerBatch       *int   `json:"maxLinksPerBatch,omitempty"`
	AdaptivePerformance    *bool  `json:"adaptivePerformance,omitempty"`
	ThrottleDelay          *int64 `json:"throttleDelay,omitempty"`
	ThrottleDynamicContent *bool  `json:"throttleDynamicContent,omitempty"`
}

// Settings converts the payload.
func (d PerformanceSettingsDTO) Settings() entity.PerformanceSettings {
	ms := func(v *int64) *time.Duration {
		if v == nil {
			return nil
		}
		dur := time.Duration(*v) * time.Millisecond
		return &dur
	}
	return entity.PerformanceSettings{
		ProcessingDelay:        ms(d.ProcessingDelay),
		MaxLinksPerBatch:       d.MaxLinksPerBatch,
		AdaptivePerformance:    d.AdaptivePerformance,
		ThrottleDelay:          ms(d.ThrottleDelay),
		ThrottleDynamicContent: d.ThrottleDynamicContent,
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// NewConfigDTO converts a configuration for the wire.
func NewConfigDTO(c entity.HighlightConfig) *ConfigDTO {
	return &ConfigDTO{
		Enabled:                c.Enabled,
		ProcessingDelay:        c.ProcessingDelay.Milliseconds(),
		MaxLinksPerBatch:       c.MaxLinksPerBatch,
		MaxLinksPerPage:        c.MaxLinksPerPage,
		AdaptivePerformance:    c.AdaptivePerformance,
		IncludedProtocols:      append([]string(nil), c.IncludedProtocols...),
		PreserveClassChanges:   c.PreserveClassChanges,
		ThrottleDynamicContent: c.ThrottleDynamicContent,
		ThrottleDelay:          c.ThrottleDelay.Milliseconds(),
		Colors: map[string]string{
			string(entity.CategoryToday): c.Colors.Today,
			string(entity.CategoryWeek):  c.Colors.Week,
			string(entity.CategoryMonth): c.Colors.Month,
			string(entity.CategoryOlder): c.Colors.Older,
			string(entity.CategoryNever): c.Colors.Never,
		},
	}
}

func newStatsDTO(s entity.HighlightStats) *StatsDTO {
	return &StatsDTO{
		SessionID:              s.SessionID,
		CacheSize:              s.CacheSize,
		PendingQueries:         s.PendingQueries,
		ProcessedLinks:         s.ProcessedLinks,
		Enabled:                s.Enabled,
		ProcessingDelay:        s.ProcessingDelay.Milliseconds(),
		MaxLinksPerBatch:       s.MaxLinksPerBatch,
		ThrottleDelay:          s.ThrottleDelay.Milliseconds(),
		ThrottleDynamicContent: s.ThrottleDynamicContent,
		ThrottledUpdates:       s.ThrottledUpdates,
		LastProcessTime:        millis(s.LastProcessTime),
		AverageProcessingTime:  millis(s.AverageProcessingTime),
	}
}

func newPerformanceDTO(p entity.PerformanceMetrics) *PerformanceDTO {
	return &PerformanceDTO{
		TotalLinksProcessed:   p.TotalLinksProcessed,
		DOMUpdates:            p.DOMUpdates,
		ThrottledUpdates:      p.ThrottledUpdates,
		LastProcessTime:       millis(p.LastProcessTime),
		AverageProcessingTime: millis(p.AverageProcessingTime),
	}
}

// MessageHandler handles one control action against the attached session.
type MessageHandler interface {
	Handle(ctx context.Context, c Controller, req Request) (Response, error)
}

// MessageHandlerFunc adapts a function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, c Controller, req Request) (Response, error)

// Handle calls f(ctx, c, req).
func (f MessageHandlerFunc) Handle(ctx context.Context, c Controller, req Request) (Response, error) {
	return f(ctx, c, req)
}

// Dispatcher routes control messages to the session attached to it.
type Dispatcher struct {
	mu       sync.RWMutex
	target   Controller
	handlers map[string]MessageHandler
}

// NewDispatcher creates a dispatcher with the built-in actions registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]MessageHandler)}
	_ = d.RegisterHandler(ActionToggleHighlighting, MessageHandlerFunc(handleToggle))
	_ = d.RegisterHandler(ActionUpdateConfig, MessageHandlerFunc(handleUpdateConfig))
	_ = d.RegisterHandler(ActionGetConfig, MessageHandlerFunc(handleGetConfig))
	_ = d.RegisterHandler(ActionRefresh, MessageHandlerFunc(handleRefresh))
	_ = d.RegisterHandler(ActionClearCache, MessageHandlerFunc(handleClearCache))
	_ = d.RegisterHandler(ActionUpdatePerformance, MessageHandlerFunc(handleUpdatePerformance))
	return d
}

// RegisterHandler registers or replaces the handler for an action.
func (d *Dispatcher) RegisterHandler(action string, handler MessageHandler) error {
	if action == "" {
		return errors.New("action cannot be empty")
	}
	if handler == nil {
		return errors.New("message handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = handler
	return nil
}

// Attach makes c the receiver of later messages.
func (d *Dispatcher) Attach(c Controller) {
	d.mu.Lock()
	d.target = c
	d.mu.Unlock()
}

// Detach removes c if it is still the receiver.
func (d *Dispatcher) Detach(c Controller) {
	d.mu.Lock()
	if d.target == c {
		d.target = nil
	}
	d.mu.Unlock()
}

// Send dispatches req. The response always carries the outcome; the error
// is returned alongside for callers that branch on it.
func (d *Dispatcher) Send(ctx context.Context, req Request) (Response, error) {
	d.mu.RLock()
	target := d.target
	handler, ok := d.handlers[req.Action]
	d.mu.RUnlock()

	if target == nil {
		return failure(ErrNoReceiver), ErrNoReceiver
	}
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
		return failure(err), err
	}

	resp, err := handler.Handle(ctx, target, req)
	if err != nil {
		return failure(err), err
	}
	resp.Success = true
	return resp, nil
}

// SendJSON decodes a request, dispatches it and encodes the response.
func (d *Dispatcher) SendJSON(ctx context.Context, payload []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		err = fmt.Errorf("decode request: %w", err)
		out, _ := json.Marshal(failure(err))
		return out, err
	}

	resp, err := d.Send(ctx, req)
	out, mErr := json.Marshal(resp)
	if mErr != nil {
		return nil, fmt.Errorf("encode response: %w", mErr)
	}
	return out, err
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

func handleToggle(ctx context.Context, c Controller, req Request) (Response, error) {
	var enabled bool
	if req.Enabled != nil {
		enabled = *req.Enabled
	} else {
		snap, err := c.Snapshot(ctx)
		if err != nil {
			return Response{}, err
		}
		enabled = !snap.Enabled
	}
	if err := c.SetEnabled(ctx, enabled); err != nil {
		return Response{}, err
	}
	return Response{Enabled: &enabled}, nil
}

func handleUpdateConfig(ctx context.Context, c Controller, _ Request) (Response, error) {
	return Response{}, c.ReloadConfig(ctx)
}

func handleGetConfig(ctx context.Context, c Controller, _ Request) (Response, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return Response{}, err
	}
	enabled := snap.Enabled
	return Response{
		Enabled:     &enabled,
		Config:      NewConfigDTO(snap.Config),
		Stats:       newStatsDTO(snap.Stats),
		Performance: newPerformanceDTO(snap.Performance),
	}, nil
}

func handleRefresh(ctx context.Context, c Controller, _ Request) (Response, error) {
	return Response{}, c.Refresh(ctx)
}

func handleClearCache(ctx context.Context, c Controller, _ Request) (Response, error) {
	return Response{}, c.ClearCache(ctx)
}

func handleUpdatePerformance(ctx context.Context, c Controller, req Request) (Response, error) {
	var dto PerformanceSettingsDTO
	if len(req.Settings) > 0 {
		if err := json.Unmarshal(req.Settings, &dto); err != nil {
			return Response{}, fmt.Errorf("decode settings: %w", err)
		}
	}
	return Response{}, c.UpdatePerformance(ctx, dto.Settings())
}
