package publisher

import (
	"context"

	"github.com/lankaconnect/eventpricing/internal/config"
	"github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/lankaconnect/eventpricing/pkg/rabbitmq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const RoutingKeyPricingUpdated = "event.pricing.updated"

type broker interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type amqpPublisher struct {
	broker broker
}

func (p *amqpPublisher) PublishPricingUpdated(ctx context.Context, evt domain.PricingUpdated) error {
	return p.broker.Publish(ctx, RoutingKeyPricingUpdated, evt)
}

type noopPublisher struct {
	log *zap.Logger
}

func (p *noopPublisher) PublishPricingUpdated(_ context.Context, evt domain.PricingUpdated) error {
	p.log.Debug("broker not configured, dropping pricing update",
		zap.String("event_id", evt.EventID),
		zap.Int64("version", evt.Version),
	)
	return nil
}

// New returns a broker-backed publisher when RABBITMQ_URL is set and a no-op
// publisher otherwise.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (domain.Publisher, error) {
	log = log.Named("pricing.publisher")
	if cfg.RabbitMQURL == "" {
		log.Info("rabbitmq url not set, pricing updates will not be published")
		return &noopPublisher{log: log}, nil
	}

	pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	return &amqpPublisher{broker: pub}, nil
}
