package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"VolSurf/internal/domain/models"
	"VolSurf/internal/domain/repository"
	pkgkafka "VolSurf/pkg/kafka"
)

// ClickHouseResultStore implements ResultStore for ClickHouse.
type ClickHouseResultStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseResultStore creates ClickHouse result storage.
func NewClickHouseResultStore(db *sql.DB, table string) repository.ResultStore {
	return &ClickHouseResultStore{db: db, table: table}
}

func (s *ClickHouseResultStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseResultStore) StorePoints(ctx context.Context, points []models.SurfacePoint) error {
	if len(points) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(points); start += chunkSize {
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, p := range points[start:end] {
			if p.Asset == "" || p.Key == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args, p.Asset, p.AsOf, p.Key, p.Level, time.Now().UTC())
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (asset, as_of, point_key, level, created_at) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseResultStore) QueryPoints(ctx context.Context, asset, asOf string, from, to time.Time, limit int) ([]models.SurfacePoint, error) {
	q := fmt.Sprintf("SELECT asset, as_of, point_key, level FROM %s WHERE asset = ?", s.table)
	args := []interface{}{asset}
	if asOf != "" {
		q += " AND as_of = ?"
		args = append(args, asOf)
	}
	if !from.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		q += " AND created_at <= ?"
		args = append(args, to)
	}
	q += " ORDER BY created_at DESC, point_key ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.SurfacePoint
	for rows.Next() {
		var p models.SurfacePoint
		if err := rows.Scan(&p.Asset, &p.AsOf, &p.Key, &p.Level); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *ClickHouseResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseResultStore) Close() error {
	return nil // Managed by pkg
}

// KafkaResultPublisher implements ResultPublisher for Kafka.
type KafkaResultPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaResultPublisher creates Kafka result publisher.
func NewKafkaResultPublisher(producer *pkgkafka.Producer, topic string) repository.ResultPublisher {
	return &KafkaResultPublisher{producer: producer, topic: topic}
}

func (p *KafkaResultPublisher) Publish(ctx context.Context, res *models.GroupResult) error {
	key := []byte(res.Asset + "|" + res.AsOf)
	return p.producer.Publish(ctx, p.topic, key, res)
}

func (p *KafkaResultPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
