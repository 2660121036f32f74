package repository

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeUUID приводит UUID к канонической записи.
func NormalizeUUID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// NormalizeMongoID принимает UUID новых документов и 24-символьный ObjectID
// документов, записанных прежней версией системы.
func NormalizeMongoID(id string) (string, bool) {
	if u, ok := NormalizeUUID(id); ok {
		return u, true
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}

// NormalizeID проверяет идентификатор записи PostgreSQL.
func (r *PostgresRepository) NormalizeID(id string) (string, bool) {
	return NormalizeUUID(id)
}

// NormalizeID проверяет идентификатор документа MongoDB.
func (r *MongoRepository) NormalizeID(id string) (string, bool) {
	return NormalizeMongoID(id)
}

// idFilter ищет документ по _id. ObjectID хранится как бинарный тип, поэтому
// 24-символьная запись сравнивается и как ObjectID, и как строка.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}
