package database

import "github.com/JannisHoch/conflict-model/helper"

type Database struct {
	PostgresDatabase PostgresDatabase
	ConflictStore    ConflictStore
}

func NewDatabase(l helper.LoggerHelper) Database {
	postgres := NewPostgresDatabase(l)
	return Database{
		PostgresDatabase: postgres,
		ConflictStore:    NewConflictStore(l, postgres),
	}
}
