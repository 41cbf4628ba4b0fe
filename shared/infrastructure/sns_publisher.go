package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pieceworks/order-system/shared/messaging"
)

var _ messaging.Publisher = (*SNSPublisher)(nil)

const maxBatchSize = 10

// SNSPublisher implements messaging.Publisher using AWS SNS, one topic per
// logical channel. SNS has no routing keys, so the message topic travels as
// the "topic" message attribute and subscribers filter on it client-side.
type SNSPublisher struct {
	client    *sns.Client
	topicArns map[messaging.Channel]string
}

// NewSNSPublisher creates an SNS publisher from the default AWS config
// (works with LocalStack when AWS_ENDPOINT_URL is set).
func NewSNSPublisher(ctx context.Context, topicArns map[messaging.Channel]string) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return &SNSPublisher{
		client:    sns.NewFromConfig(cfg),
		topicArns: topicArns,
	}, nil
}

// Publish publishes messages to the channel's SNS topic in batches.
func (p *SNSPublisher) Publish(ctx context.Context, channel messaging.Channel, msgs ...*messaging.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	topicArn, ok := p.topicArns[channel]
	if !ok {
		return errors.Wrapf(messaging.ErrInvalidChannel, "no SNS topic for channel %s", channel)
	}

	gr, ctx := errgroup.WithContext(ctx)

	for _, batch := range splitToChunks(msgs, maxBatchSize) {
		batch := batch
		gr.Go(func() error {
			return p.batchPublish(ctx, topicArn, batch)
		})
	}

	return gr.Wait()
}

func (p *SNSPublisher) batchPublish(ctx context.Context, topicArn string, msgs []*messaging.Message) error {
	requests := make([]types.PublishBatchRequestEntry, len(msgs))

	for i, msg := range msgs {
		body, err := json.Marshal(msg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal message")
		}

		attrs := map[string]types.MessageAttributeValue{
			"topic": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.Topic.String()),
			},
		}
		for k, v := range msg.Metadata {
			attrs[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}

		requests[i] = types.PublishBatchRequestEntry{
			Id:                aws.String(msg.ID.String()),
			Message:           aws.String(string(body)),
			MessageAttributes: attrs,
		}
	}

	_, err := p.client.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   &topicArn,
		PublishBatchRequestEntries: requests,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish batch to SNS")
	}

	return nil
}

// Close releases publisher resources. The SNS client holds none.
func (p *SNSPublisher) Close() error {
	return nil
}

// splitToChunks splits slice into chunks of specified size
func splitToChunks[T any](slice []T, chunkSize int) [][]T {
	var chunks [][]T
	for i := 0; i < len(slice); i += chunkSize {
		end := i + chunkSize
		if end > len(slice) {
			end = len(slice)
		}
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}
