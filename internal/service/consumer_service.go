// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/extract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the upload topic and embeds each document through the
// ingest service, keeping uploads off the request path.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	ingestService IIngestService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestService IIngestService,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		ingestService: ingestService,
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
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing uploaded document: %s", payload.Path)

	chunks, err := cs.ingestService.IngestFile(ctx, payload.Path)
	if err != nil {
		switch {
		case os.IsNotExist(err) || errors.Is(err, os.ErrNotExist):
			// Upload removed before we got to it. Ack.
			log.Printf("[WARN] Uploaded document vanished: %s", payload.Path)
			msg.Ack()
		case errors.Is(err, extract.ErrUnsupportedType):
			// Retrying will never make the file readable. Ack.
			log.Printf("[ERROR] Uploaded document is not ingestable: %s: %v", payload.Path, err)
			msg.Ack()
		default:
			// Embedding provider or store hiccup. Nack for retry.
			log.Printf("[ERROR] Failed to ingest %s: %v", payload.Path, err)
			msg.Nack()
		}
		return
	}

	log.Printf("[SUCCESS] Document ingested: %d chunks from %s", chunks, payload.Path)
	msg.Ack()
}
