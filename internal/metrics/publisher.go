package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/smithy-go"

	"github.com/jikaseimen-kirinji/order-gateway/internal/aws"
)

// Metric names for payment outcomes.
const (
	MetricPaymentSucceeded = "PaymentSucceeded"
	MetricPaymentRejected  = "PaymentRejected"
	MetricProviderFailed   = "ProviderFailed"
)

const putTimeout = 3 * time.Second

// Publisher emits count metrics to CloudWatch. A nil *Publisher is a valid
// no-op, so local runs without AWS credentials simply skip metrics.
type Publisher struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewPublisher returns a Publisher bound to a metric namespace.
func NewPublisher(client aws.CloudWatchAPI, namespace string) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count records one occurrence of the named metric. It is fire-and-forget:
// the put runs on its own goroutine with its own deadline and a failure is
// only logged, never surfaced to the request that triggered it.
func (p *Publisher) Count(name string) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
		defer cancel()
		if err := p.put(ctx, name); err != nil {
			log.Printf("[metrics] put %s failed: %v", name, err)
		}
	}()
}

func (p *Publisher) put(ctx context.Context, name string) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(name),
				Timestamp:  sdkaws.Time(p.nowFunc()),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
		},
	}

	_, err := p.client.PutMetricData(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("put metric data: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
