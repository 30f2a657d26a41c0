package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-filesearch-be/internal/constant"
	"ai-filesearch-be/internal/dto"
	internalWS "ai-filesearch-be/internal/websocket"
	"ai-filesearch-be/pkg/events"
	pktNats "ai-filesearch-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains turn events off the in-process bus and fans them
// out: per-session websocket frame, plus NATS when a broker is configured.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	hub            *internalWS.Hub
	eventPublisher *pktNats.Publisher // may be nil
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *internalWS.Hub,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		hub:            hub,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishTurnCompletedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// NATS first: its failure is retriable, and retrying after the hub
	// delivery would duplicate websocket frames.
	if cs.eventPublisher != nil {
		evt := events.NewTurnCompleted(payload.SessionId, payload.Intent, payload.FileCount, time.Duration(payload.DurationMs)*time.Millisecond)

		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := cs.eventPublisher.Publish(pubCtx, evt)
		cancel()
		if err != nil {
			log.Printf("[ERROR] Failed to publish turn event to NATS: %v", err)
			msg.Nack() // Nack for retriable errors
			return
		}
	}

	cs.hub.Send(payload.SessionId, constant.WsTypeTurn, payload)

	msg.Ack()
}
