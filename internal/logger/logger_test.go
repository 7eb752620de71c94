package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	old := Logger
	defer SetLogger(old)

	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	Logger.Printf("loaded %d words", 3)
	assert.Equal(t, "loaded 3 words\n", buf.String())
}
