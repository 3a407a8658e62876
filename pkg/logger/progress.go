package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker tracks progress of long-running operations such as
// batch routing runs or catalog synchronization.
type ProgressTracker struct {
	logger      Logger
	operation   string
	total       int64
	current     int64
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
	mutex       sync.RWMutex
}

// ProgressConfig configures progress tracking behavior
type ProgressConfig struct {
	Operation   string        `json:"operation"`
	Total       int64         `json:"total"`
	LogInterval time.Duration `json:"log_interval"`
	Logger      Logger        `json:"-"`
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(config ProgressConfig) *ProgressTracker {
	if config.Logger == nil {
		config.Logger = GetGlobalLogger()
	}
	if config.LogInterval == 0 {
		config.LogInterval = 5 * time.Second
	}

	tracker := &ProgressTracker{
		logger:      config.Logger.WithComponent("progress"),
		operation:   config.Operation,
		total:       config.Total,
		startTime:   time.Now(),
		lastLogTime: time.Now(),
		logInterval: config.LogInterval,
	}

	tracker.logger.WithFields(Fields{
		"operation": config.Operation,
		"total":     config.Total,
	}).Info("Starting operation")

	return tracker
}

// Increment increments the progress counter by 1
func (p *ProgressTracker) Increment() {
	p.Add(1)
}

// Add increments the progress counter by the given amount
func (p *ProgressTracker) Add(delta int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.current += delta
	now := time.Now()

	if now.Sub(p.lastLogTime) >= p.logInterval {
		p.logProgress(now)
		p.lastLogTime = now
	}
}

// Complete marks the operation as complete and logs final statistics
func (p *ProgressTracker) Complete() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	duration := time.Since(p.startTime)
	rate := float64(p.current) / duration.Seconds()

	p.logger.WithFields(Fields{
		"operation": p.operation,
		"total":     p.total,
		"processed": p.current,
		"duration":  duration.String(),
		"rate":      fmt.Sprintf("%.2f/sec", rate),
	}).Info("Operation completed")
}

// CompleteWithError marks the operation as complete with error
func (p *ProgressTracker) CompleteWithError(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	duration := time.Since(p.startTime)

	p.logger.WithError(err).WithFields(Fields{
		"operation": p.operation,
		"total":     p.total,
		"processed": p.current,
		"duration":  duration.String(),
	}).Error("Operation completed with error")
}

// GetStats returns current progress statistics
func (p *ProgressTracker) GetStats() ProgressStats {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	duration := time.Since(p.startTime)
	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(p.current) / duration.Seconds()
	}

	var percentage float64
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100
	}

	return ProgressStats{
		Operation:  p.operation,
		Total:      p.total,
		Current:    p.current,
		Percentage: percentage,
		Duration:   duration,
		Rate:       rate,
	}
}

func (p *ProgressTracker) logProgress(now time.Time) {
	duration := now.Sub(p.startTime)
	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(p.current) / duration.Seconds()
	}

	fields := Fields{
		"operation": p.operation,
		"processed": p.current,
		"rate":      fmt.Sprintf("%.2f/sec", rate),
	}

	if p.total > 0 {
		fields["total"] = p.total
		fields["percentage"] = fmt.Sprintf("%.1f%%", float64(p.current)/float64(p.total)*100)
	}

	p.logger.WithFields(fields).Info("Progress update")
}

// ProgressStats contains progress statistics
type ProgressStats struct {
	Operation  string        `json:"operation"`
	Total      int64         `json:"total"`
	Current    int64         `json:"current"`
	Percentage float64       `json:"percentage"`
	Duration   time.Duration `json:"duration"`
	Rate       float64       `json:"rate"`
}

// String returns a human-readable representation of the progress
func (ps ProgressStats) String() string {
	if ps.Total > 0 {
		return fmt.Sprintf("%s: %d/%d (%.1f%%) at %.2f/sec",
			ps.Operation, ps.Current, ps.Total, ps.Percentage, ps.Rate)
	}
	return fmt.Sprintf("%s: %d processed at %.2f/sec, elapsed: %v",
		ps.Operation, ps.Current, ps.Rate, ps.Duration)
}

// OperationLogger provides structured logging for operations with timing
type OperationLogger struct {
	logger    Logger
	operation string
	fields    Fields
	startTime time.Time
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(operation string, logger Logger) *OperationLogger {
	if logger == nil {
		logger = GetGlobalLogger()
	}

	ol := &OperationLogger{
		logger:    logger.WithComponent("operation"),
		operation: operation,
		fields:    make(Fields),
		startTime: time.Now(),
	}

	ol.logger.WithField("operation", operation).Info("Starting operation")
	return ol
}

// WithField adds a field to the operation context
func (ol *OperationLogger) WithField(key string, value interface{}) *OperationLogger {
	ol.fields[key] = value
	return ol
}

// Step logs a step within the operation
func (ol *OperationLogger) Step(step string) {
	fields := Fields{
		"operation": ol.operation,
		"step":      step,
	}
	for k, v := range ol.fields {
		fields[k] = v
	}

	ol.logger.WithFields(fields).Info("Operation step")
}

// Success completes the operation successfully
func (ol *OperationLogger) Success(message string) {
	duration := time.Since(ol.startTime)
	fields := Fields{
		"operation": ol.operation,
		"duration":  duration.String(),
		"status":    "success",
	}
	for k, v := range ol.fields {
		fields[k] = v
	}

	ol.logger.WithFields(fields).Info(message)
}

// Error completes the operation with an error
func (ol *OperationLogger) Error(err error, message string) {
	duration := time.Since(ol.startTime)
	fields := Fields{
		"operation": ol.operation,
		"duration":  duration.String(),
		"status":    "error",
	}
	for k, v := range ol.fields {
		fields[k] = v
	}

	ol.logger.WithError(err).WithFields(fields).Error(message)
}
