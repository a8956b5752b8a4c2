package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockStorage(t *testing.T) {
	s := NewMockStorage()

	_, err := s.Load("missing.bin")
	assert.ErrorIs(t, err, NotFoundErr)

	payload := []byte("payload")
	err = s.Save("file.bin", payload)
	assert.NoError(t, err)
	// the stored bytes must not follow the caller's slice
	payload[0] = 'x'

	b, err := s.Load("file.bin")
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}
