package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// AnalysisRequest is one wallet analysis job received over NATS. The wallet
// payload is an already-materialized WalletData; on-chain retrieval happens
// upstream of this service.
type AnalysisRequest struct {
	RequestID string             `json:"request_id"`
	Wallet    *entity.WalletData `json:"wallet"`
}

// AnalysisResult is published to the report subject once a request has been
// processed. Either Report or Error is set.
type AnalysisResult struct {
	RequestID string               `json:"request_id"`
	Report    *entity.WalletReport `json:"report,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// AnalysisConsumer handles NATS consumption of analysis requests and
// publication of finished reports. JetStream is preferred, with a fallback to
// a core NATS queue subscription.
type AnalysisConsumer struct {
	conn      *nats.Conn
	js        nats.JetStreamContext
	sub       *nats.Subscription
	config    *config.NATSConfig
	logger    *logger.Logger
	reqChan   chan *AnalysisRequest
	isRunning bool
}

// NewAnalysisConsumer creates a new analysis request consumer
func NewAnalysisConsumer(cfg *config.NATSConfig, log *logger.Logger) *AnalysisConsumer {
	return &AnalysisConsumer{
		config:  cfg,
		logger:  log.WithComponent("analysis-consumer"),
		reqChan: make(chan *AnalysisRequest, cfg.MaxPendingRequests),
	}
}

// Connect connects to the NATS server and sets up the subscription
func (c *AnalysisConsumer) Connect(ctx context.Context) error {
	if !c.config.Enabled {
		c.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	c.logger.Info("Connecting to NATS server", zap.String("url", c.config.URL))

	opts := []nats.Option{
		nats.Name("wallet-profiler"),
		nats.Timeout(c.config.ConnectTimeout),
		nats.ReconnectWait(c.config.ReconnectDelay),
		nats.MaxReconnects(c.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			c.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			c.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(c.config.URL, opts...)
	if err != nil {
		c.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	c.conn = conn

	// Try JetStream first, if not available fall back to core NATS
	js, err := conn.JetStream()
	if err != nil {
		c.logger.Warn("JetStream not available, using core NATS", zap.Error(err))
		return c.setupCoreNATSSubscription()
	}

	c.js = js
	return c.setupJetStreamSubscription()
}

// setupJetStreamSubscription sets up the durable JetStream pull subscription
func (c *AnalysisConsumer) setupJetStreamSubscription() error {
	subject := c.config.AnalyzeSubject

	c.logger.Info("Setting up JetStream subscription",
		zap.String("subject", subject),
		zap.String("stream", c.config.StreamName))

	sub, err := c.js.PullSubscribe(subject, c.config.ConsumerGroup,
		nats.BindStream(c.config.StreamName))
	if err != nil {
		c.logger.Warn("Failed to create JetStream consumer, falling back to core NATS", zap.Error(err))
		return c.setupCoreNATSSubscription()
	}

	c.sub = sub
	c.isRunning = true

	go c.processJetStreamMessages()

	c.logger.Info("Successfully subscribed via JetStream",
		zap.String("subject", subject),
		zap.String("consumer", c.config.ConsumerGroup))

	return nil
}

// processJetStreamMessages processes messages from the pull subscription
func (c *AnalysisConsumer) processJetStreamMessages() {
	c.logger.Info("Starting JetStream message processing")

	for c.isRunning {
		msgs, err := c.sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil {
			if err == nats.ErrTimeout {
				continue
			}
			c.logger.Error("Failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			c.handleMessage(msg)
		}
	}

	c.logger.Info("Stopped JetStream message processing")
}

// setupCoreNATSSubscription sets up a core NATS queue subscription
func (c *AnalysisConsumer) setupCoreNATSSubscription() error {
	subject := c.config.AnalyzeSubject
	queueGroup := c.config.ConsumerGroup

	c.logger.Info("Setting up core NATS subscription",
		zap.String("subject", subject),
		zap.String("queue_group", queueGroup))

	sub, err := c.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		c.handleMessage(msg)
	})
	if err != nil {
		c.logger.Error("Failed to subscribe to subject", zap.Error(err))
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.sub = sub
	c.isRunning = true

	c.logger.Info("Successfully subscribed via core NATS",
		zap.String("subject", subject),
		zap.String("queue_group", queueGroup))

	return nil
}

// handleMessage handles one incoming NATS message
func (c *AnalysisConsumer) handleMessage(msg *nats.Msg) {
	var req AnalysisRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.logger.Error("Failed to unmarshal analysis request", zap.Error(err))
		if msg.Reply != "" {
			msg.Respond([]byte("ERROR: failed to unmarshal"))
		}
		return
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	c.logger.Debug("Queueing analysis request",
		zap.String("request_id", req.RequestID))

	select {
	case c.reqChan <- &req:
		// Acknowledge if it's a JetStream message
		if msg.Reply != "" {
			msg.Ack()
		}
	default:
		// Channel is full
		c.logger.Warn("Request channel is full, dropping request",
			zap.String("request_id", req.RequestID))
		if msg.Reply != "" {
			msg.Nak()
		}
	}
}

// PublishResult publishes a finished analysis to the report subject.
func (c *AnalysisConsumer) PublishResult(result *AnalysisResult) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return fmt.Errorf("not connected to NATS")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	if err := c.conn.Publish(c.config.ReportSubject, payload); err != nil {
		return fmt.Errorf("failed to publish analysis result: %w", err)
	}

	return nil
}

// Disconnect disconnects from the NATS server
func (c *AnalysisConsumer) Disconnect() error {
	c.isRunning = false

	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	close(c.reqChan)
	c.logger.Info("Disconnected from NATS")
	return nil
}

// IsConnected checks if connected to NATS
func (c *AnalysisConsumer) IsConnected() bool {
	return c.isRunning && c.conn != nil && c.conn.IsConnected()
}

// Requests returns the channel of queued analysis requests
func (c *AnalysisConsumer) Requests() <-chan *AnalysisRequest {
	return c.reqChan
}
