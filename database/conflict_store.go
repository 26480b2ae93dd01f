package database

import (
	"context"
	"fmt"
	"os"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/helper"
	"github.com/JannisHoch/conflict-model/processor"
)

// ConflictStore serves raw conflict events from postgres. It implements the
// processor's conflict provider contract.
type ConflictStore interface {
	Events(yearStart, yearEnd int) ([]processor.ConflictEvent, error)
}

type ConflictStoreImpl struct {
	log   helper.LoggerHelper
	db    PostgresDatabase
	table string
}

func NewConflictStore(l helper.LoggerHelper, db PostgresDatabase) ConflictStore {
	table := os.Getenv(constant.EnvConflictTable)
	if table == "" {
		table = "conflict_events"
	}
	return &ConflictStoreImpl{
		log:   l,
		db:    db,
		table: table,
	}
}

func (s *ConflictStoreImpl) Events(yearStart, yearEnd int) ([]processor.ConflictEvent, error) {
	query := fmt.Sprintf(
		"SELECT year, longitude, latitude FROM %s WHERE year BETWEEN $1 AND $2 ORDER BY year",
		s.table,
	)
	rows, err := s.db.GetPool().Query(context.Background(), query, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("querying conflict events: %w", err)
	}
	defer rows.Close()

	var events []processor.ConflictEvent
	for rows.Next() {
		var year int
		var lon, lat float64
		if err := rows.Scan(&year, &lon, &lat); err != nil {
			return nil, fmt.Errorf("scanning conflict event: %w", err)
		}
		events = append(events, processor.ConflictEvent{
			Year:     year,
			Location: processor.Point{X: lon, Y: lat},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading conflict events: %w", err)
	}

	s.log.LogAndContinue("Read %d conflict events for period %d-%d", len(events), yearStart, yearEnd)
	return events, nil
}
