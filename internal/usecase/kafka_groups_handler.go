package usecase

import (
	"context"
	"encoding/json"
	"time"

	"VolSurf/internal/domain/models"
	drepo "VolSurf/internal/domain/repository"
	pkgkafka "VolSurf/pkg/kafka"
)

// KafkaGroupsHandler consumes surface-group messages and runs them through
// the evaluator. One message carries one logical group, so a returned
// error (retried, then dead-lettered by the consumer) never touches the
// other groups of a batch.
type KafkaGroupsHandler struct {
	topic     string
	evaluator *SurfaceEvaluator
	metrics   drepo.Metrics
}

func NewKafkaGroupsHandler(topic string, evaluator *SurfaceEvaluator, metrics drepo.Metrics) *KafkaGroupsHandler {
	return &KafkaGroupsHandler{topic: topic, evaluator: evaluator, metrics: metrics}
}

func (h *KafkaGroupsHandler) Topic() string { return h.topic }

// incoming message schema matches models.SurfaceGroup
func (h *KafkaGroupsHandler) Handle(ctx context.Context, b []byte) error {
	var g models.SurfaceGroup
	if err := json.Unmarshal(b, &g); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	start := time.Now()
	if _, err := h.evaluator.Evaluate(ctx, &g, false); err != nil {
		h.metrics.RecordGroupFailed(g.Asset)
		return err
	}
	h.metrics.RecordLatency("consume_group", time.Since(start).Seconds())
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaGroupsHandler)(nil)
