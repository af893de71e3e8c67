package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yourusername/storefront-api/internal/apperr"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := ParseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = ParseID("not-an-object-id")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))

	err := TranslateError(mongo.ErrNoDocuments)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	err = TranslateError(dup)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	other := errors.New("network down")
	assert.Same(t, other, TranslateError(other))
}
