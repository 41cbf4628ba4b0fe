package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pieceworks/order-system/shared/messaging"
)

const (
	SQSMessageIDKey     = "sqs_message_id"
	SQSReceiptHandleKey = "sqs_receipt_handle"
)

var _ messaging.Subscriber = (*SQSSubscriber)(nil)

// SQSSubscriber implements messaging.Subscriber on AWS SQS. Each binding
// names a queue subscribed to the channel's SNS topic; routing key patterns
// are evaluated client-side because SQS has no topic routing of its own.
// A handler error leaves the message in the queue for redelivery after the
// visibility timeout.
type SQSSubscriber struct {
	client    *sqs.Client
	queueURLs map[string]string
	logger    *zap.Logger
	options   *sqsSubscriberOptions
}

type sqsSubscriberOptions struct {
	workers                    int
	maxNumberOfMessages        int32
	waitTimeSeconds            int32
	visibilityTimeout          int32
	sleepTimeAfterEmptyReceive time.Duration
	sleepTimeAfterError        time.Duration
}

type SQSSubscriberOption func(*sqsSubscriberOptions)

func WithWorkers(workers int) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

func WithVisibilityTimeout(timeout int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.visibilityTimeout = timeout
	}
}

// NewSQSSubscriber creates an SQS subscriber from the default AWS config.
// queueURLs maps binding queue names to SQS queue URLs.
func NewSQSSubscriber(ctx context.Context, queueURLs map[string]string, logger *zap.Logger, opts ...SQSSubscriberOption) (*SQSSubscriber, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	options := &sqsSubscriberOptions{
		workers:                    5,
		maxNumberOfMessages:        5,
		waitTimeSeconds:            15,
		visibilityTimeout:          30,
		sleepTimeAfterEmptyReceive: 10 * time.Second,
		sleepTimeAfterError:        20 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &SQSSubscriber{
		client:    sqs.NewFromConfig(cfg),
		queueURLs: queueURLs,
		logger:    logger,
		options:   options,
	}, nil
}

// Run polls every binding's queue and dispatches matching messages to the
// handler. It blocks until the context is canceled.
func (s *SQSSubscriber) Run(ctx context.Context, bindings []messaging.Binding, handler messaging.Handler) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, binding := range bindings {
		queueURL, ok := s.queueURLs[binding.Queue]
		if !ok {
			return errors.Errorf("no SQS queue URL configured for queue %s", binding.Queue)
		}

		binding := binding
		for i := 0; i < s.options.workers; i++ {
			group.Go(func() error {
				return s.poll(ctx, queueURL, binding, handler)
			})
		}
	}

	return group.Wait()
}

func (s *SQSSubscriber) poll(ctx context.Context, queueURL string, binding messaging.Binding, handler messaging.Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.receive(ctx, queueURL, binding, handler); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("SQS receive failed",
					zap.String("queue", binding.Queue),
					zap.Error(err),
				)
				time.Sleep(s.options.sleepTimeAfterError)
			}
		}
	}
}

func (s *SQSSubscriber) receive(ctx context.Context, queueURL string, binding messaging.Binding, handler messaging.Handler) error {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(queueURL),
		MaxNumberOfMessages:   s.options.maxNumberOfMessages,
		WaitTimeSeconds:       s.options.waitTimeSeconds,
		VisibilityTimeout:     s.options.visibilityTimeout,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return errors.Wrap(err, "failed to receive message from SQS")
	}

	if len(output.Messages) == 0 {
		time.Sleep(s.options.sleepTimeAfterEmptyReceive)
		return nil
	}

	for _, sqsMsg := range output.Messages {
		msg, err := s.decode(sqsMsg)
		if err != nil {
			s.logger.Warn("skipping malformed SQS message",
				zap.String("queue", binding.Queue),
				zap.Error(err),
			)
			s.delete(ctx, queueURL, sqsMsg)
			continue
		}

		// SNS fanout delivers every message on the channel; drop the
		// ones this binding's pattern does not cover.
		if !msg.Topic.Matches(binding.RoutingKey) {
			s.delete(ctx, queueURL, sqsMsg)
			continue
		}

		if err := handler.Handle(ctx, msg); err != nil {
			s.logger.Error("message handling failed, leaving for redelivery",
				zap.String("handler", handler.HandlerID()),
				zap.String("topic", msg.Topic.String()),
				zap.String("message_id", msg.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.delete(ctx, queueURL, sqsMsg)
	}

	return nil
}

func (s *SQSSubscriber) decode(sqsMsg types.Message) (*messaging.Message, error) {
	// SNS wraps the published message in its own notification envelope.
	var notification struct {
		Message string `json:"Message"`
	}
	body := *sqsMsg.Body
	if err := json.Unmarshal([]byte(body), &notification); err == nil && notification.Message != "" {
		body = notification.Message
	}

	var msg messaging.Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal message body")
	}

	if msg.Metadata == nil {
		msg.Metadata = make(messaging.Metadata)
	}
	if sqsMsg.MessageId != nil {
		msg.Metadata.Set(SQSMessageIDKey, *sqsMsg.MessageId)
	}
	if sqsMsg.ReceiptHandle != nil {
		msg.Metadata.Set(SQSReceiptHandleKey, *sqsMsg.ReceiptHandle)
	}

	return &msg, nil
}

func (s *SQSSubscriber) delete(ctx context.Context, queueURL string, sqsMsg types.Message) {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: sqsMsg.ReceiptHandle,
	})
	if err != nil {
		s.logger.Error("failed to delete message from SQS", zap.Error(err))
	}
}
