package events

import (
	"context"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/rs/zerolog/log"
)

type Publisher interface {
	PublishUserRegistered(ctx context.Context, userID, nickname, method string) error
	PublishUserDeleted(ctx context.Context, userID string) error
	PublishQuizCreated(ctx context.Context, quizID, creatorID string, quizType models.QuizType) error
	PublishQuizDeleted(ctx context.Context, quizID, creatorID string) error
	PublishRecordSubmitted(ctx context.Context, userID, quizID string, isCorrect bool) error

	Close() error
}

type event interface {
	ToJSON() ([]byte, error)
}

type EventPublisher struct {
	rabbitMQ *RabbitMQClient
	enabled  bool
}

// NewEventPublisher returns a disabled publisher when rabbitURI is empty.
func NewEventPublisher(rabbitURI, exchange string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Warn().Msg("RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	client, err := NewRabbitMQClient(rabbitURI, exchange)
	if err != nil {
		return nil, err
	}

	return &EventPublisher{
		rabbitMQ: client,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) publish(ctx context.Context, routingKey models.EventType, e event) error {
	if !p.enabled {
		log.Debug().Str("event", string(routingKey)).Msg("event publishing is disabled, skipping")
		return nil
	}

	data, err := e.ToJSON()
	if err != nil {
		return err
	}
	if err := p.rabbitMQ.PublishEvent(ctx, string(routingKey), data); err != nil {
		return err
	}

	log.Debug().Str("event", string(routingKey)).Msg("published event")
	return nil
}

func (p *EventPublisher) PublishUserRegistered(ctx context.Context, userID, nickname, method string) error {
	return p.publish(ctx, models.EventUserRegistered, NewUserRegisteredEvent(userID, nickname, method))
}

func (p *EventPublisher) PublishUserDeleted(ctx context.Context, userID string) error {
	return p.publish(ctx, models.EventUserDeleted, NewUserDeletedEvent(userID))
}

func (p *EventPublisher) PublishQuizCreated(ctx context.Context, quizID, creatorID string, quizType models.QuizType) error {
	return p.publish(ctx, models.EventQuizCreated, NewQuizEvent(models.EventQuizCreated, quizID, creatorID, quizType))
}

func (p *EventPublisher) PublishQuizDeleted(ctx context.Context, quizID, creatorID string) error {
	return p.publish(ctx, models.EventQuizDeleted, NewQuizEvent(models.EventQuizDeleted, quizID, creatorID, ""))
}

func (p *EventPublisher) PublishRecordSubmitted(ctx context.Context, userID, quizID string, isCorrect bool) error {
	return p.publish(ctx, models.EventRecordSubmitted, NewRecordSubmittedEvent(userID, quizID, isCorrect))
}

func (p *EventPublisher) Close() error {
	if !p.enabled || p.rabbitMQ == nil {
		return nil
	}
	return p.rabbitMQ.Close()
}
