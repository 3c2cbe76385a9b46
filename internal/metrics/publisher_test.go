package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

// mockCloudWatch records PutMetricData calls.
type mockCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPut_SendsSingleCountDatum(t *testing.T) {
	mock := &mockCloudWatch{}
	p := NewPublisher(mock, "KirinjiGateway")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.nowFunc = func() time.Time { return fixed }

	if err := p.put(context.Background(), MetricPaymentSucceeded); err != nil {
		t.Fatalf("put: %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected one PutMetricData call, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "KirinjiGateway" {
		t.Fatalf("namespace = %q", *in.Namespace)
	}
	if len(in.MetricData) != 1 {
		t.Fatalf("expected one datum, got %d", len(in.MetricData))
	}
	d := in.MetricData[0]
	if *d.MetricName != MetricPaymentSucceeded || *d.Value != 1 {
		t.Fatalf("unexpected datum: name=%q value=%v", *d.MetricName, *d.Value)
	}
	if !d.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp not taken from clock: %v", d.Timestamp)
	}
}

func TestCount_NilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	p.Count(MetricProviderFailed) // must not panic
}
