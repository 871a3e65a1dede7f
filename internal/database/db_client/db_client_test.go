package db_client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenFailsWhenUnreachable(t *testing.T) {
	// nothing listens on port 1
	db, err := Open("127.0.0.1", "1", "relay", "p@ss word", "relay")
	assert.Error(t, err)
	assert.Nil(t, db, "a pool that never answered ping is not handed out")
}
