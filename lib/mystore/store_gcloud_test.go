package mystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "attempt", kindOf[attempt]())
	assert.Equal(t, "string", kindOf[string]())
}
