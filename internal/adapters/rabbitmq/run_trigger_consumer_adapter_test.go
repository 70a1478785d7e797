package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

type fakeRunExecutor struct {
	summary domain.RunSummary
	err     error
	calls   int
}

func (f *fakeRunExecutor) Execute(context.Context) (domain.RunSummary, error) {
	f.calls++
	return f.summary, f.err
}

func TestTriggerHandlerOutcomes(t *testing.T) {
	runErr := errors.New("database unreachable")

	tests := []struct {
		name        string
		execErr     error
		redelivered bool
		wantAck     bool
		wantRequeue bool
		wantErr     bool
	}{
		{
			name:    "success is acked",
			wantAck: true,
		},
		{
			name:        "first failure is requeued",
			execErr:     runErr,
			wantRequeue: true,
			wantErr:     true,
		},
		{
			name:        "redelivered failure is discarded",
			execErr:     runErr,
			redelivered: true,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeRunExecutor{
				summary: domain.RunSummary{Success: tt.execErr == nil, Message: "done"},
				err:     tt.execErr,
			}
			a := &RunTriggerConsumerAdapter{useCase: exec}

			ack, requeue, err := a.messageHandler(amqp.Delivery{
				DeliveryTag: 7,
				Redelivered: tt.redelivered,
			})

			if exec.calls != 1 {
				t.Fatalf("use case called %d times; want 1", exec.calls)
			}
			if ack != tt.wantAck {
				t.Errorf("ack = %v; want %v", ack, tt.wantAck)
			}
			if requeue != tt.wantRequeue {
				t.Errorf("requeue = %v; want %v", requeue, tt.wantRequeue)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}
